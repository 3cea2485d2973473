package photoframe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

func isPhoto(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func (pf *PhotoFrame) findPhotos(ctx context.Context, base string) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore hidden files and directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !isPhoto(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc
}

func (pf *PhotoFrame) convertWorker(ctx context.Context, in <-chan string, p Params) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if _, err := pf.Convert(file, p); err != nil {
				errc <- err
				return
			}
			pf.logger.Info("converted", "input", file)

			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()
	return errc
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// ConvertDir walks a directory tree and converts every photo found,
// running one conversion pipeline per CPU. Conversions are independent
// of each other so the workers need no coordination beyond distinct
// output paths; the first error tears the pipeline down.
func (pf *PhotoFrame) ConvertDir(path string, p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var errcList []<-chan error

	photos, errc := pf.findPhotos(ctx, dir)
	errcList = append(errcList, errc)

	for i := 0; i < runtime.NumCPU(); i++ {
		errcList = append(errcList, pf.convertWorker(ctx, photos, p))
	}

	return waitForPipeline(errcList...)
}
