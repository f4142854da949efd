package gconf

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
)

// ReadStore is the subset of the store needed to load a configuration.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the subset of the store needed to save a configuration.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler is implemented by configurations that can be saved.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

// Unmarshaler is implemented by configurations that can be loaded.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is implemented by every package configuration.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates and writes the configuration of pkg.
func Save(db Store, pkg string, src ValidMarshaler) error {
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", key(pkg))
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal: key %q", key(pkg))
	}
	return db.Set(key(pkg), raw)
}

// Load reads the configuration of pkg into dst. It returns ErrNotFound if
// the configuration was never saved.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	raw, err := db.Get(key(pkg))
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", key(pkg))
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal: key %q", key(pkg))
	}
	return nil
}

// InitConfig reads the configuration of pkg from the "conf" section of the
// genesis options and saves it. A configuration that was saved before
// cannot be replaced.
func InitConfig(db Store, opts swapd.Options, pkg string, conf Configuration) error {
	var confOptions swapd.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if confOptions[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if raw, err := db.Get(key(pkg)); err != nil {
		return err
	} else if raw != nil {
		return errors.Wrapf(errors.ErrDuplicate, "configuration for %q package already set", pkg)
	}
	if err := confOptions.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "read configuration for %s", pkg)
	}
	if err := Save(db, pkg, conf); err != nil {
		return errors.Wrapf(err, "save configuration for %s", pkg)
	}
	return nil
}
