package utils

import (
	"fmt"
	"path/filepath"

	"github.com/joseph-ayodele/hotel-rates/constants"
)

// ExtensionValidator accepts file names whose extension is in allowed.
func ExtensionValidator(allowed map[string]struct{}) func(string) error {
	return func(s string) error {
		ext := constants.NormalizeExt(filepath.Ext(s))
		if _, ok := allowed[ext]; ok {
			return nil
		}
		return fmt.Errorf("unsupported source file extension %q", filepath.Ext(s))
	}
}
