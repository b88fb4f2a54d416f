package rbac

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// roleFile is the on-disk layout of a YAML role catalog:
//
//	roles:
//	  viewer:
//	    permissions: [document.read]
//	  member:
//	    permissions: [document.create]
//	    inherits: [viewer]
type roleFile struct {
	Roles map[string]Role `yaml:"roles"`
}

// NewYAMLRoleSource decodes a role catalog from r.
// The document is parsed eagerly so that syntax errors surface at startup.
func NewYAMLRoleSource(r io.Reader) (RoleSource, error) {
	var f roleFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty role document", ErrRoleSourceFailed)
		}
		return nil, errors.Join(ErrRoleSourceFailed, err)
	}
	return NewInMemRoleSource(f.Roles), nil
}

// LoadYAMLFile opens path and decodes it with NewYAMLRoleSource.
func LoadYAMLFile(path string) (RoleSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrRoleSourceFailed, err)
	}
	defer f.Close()

	return NewYAMLRoleSource(f)
}
