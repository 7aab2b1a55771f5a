// Package stage scopes work to a package's staged source tree.
package stage

import (
	"fmt"
	"os"
)

// Within runs fn with dir as the process working directory and restores the
// previous working directory afterwards, whether fn returns an error or
// panics.
func Within(dir string, fn func() error) (err error) {
	prev, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("enter stage: %w", err)
	}
	defer func() {
		if cerr := os.Chdir(prev); cerr != nil && err == nil {
			err = fmt.Errorf("leave stage: %w", cerr)
		}
	}()
	return fn()
}
