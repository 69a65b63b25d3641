package state

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
)

var namePattern, _ = regexp.Compile("^[0-9A-Za-z._-]+$")

func PathValidator(s string) error {
	_, err := os.Stat(path.Dir(s))
	if err != nil {
		return err
	}
	_, err = filepath.Abs(s)
	return err
}

// NameValidator checks a router name. Names are used as graph symbols and as
// file names by the renderer, so they are kept to a conservative alphabet.
func NameValidator(s string) error {
	if !namePattern.MatchString(s) {
		return fmt.Errorf("%q is not a valid name, must match pattern %s", s, namePattern.String())
	}
	if len(s) > 100 {
		return fmt.Errorf("len(\"%s\") = %d > 100 is too long", s, len(s))
	}
	return nil
}

// IfaceValidator checks a resolved interface reference.
func IfaceValidator(r IfaceRef) error {
	if r.Raw {
		if r.Slot < 0 || r.Port < 0 {
			return fmt.Errorf("interface descriptor needs a non-negative slot and port, got slot %d port %d", r.Slot, r.Port)
		}
		return nil
	}
	if r.Name == "" {
		return fmt.Errorf("interface is missing")
	}
	return nil
}
