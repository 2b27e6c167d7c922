package app

import (
	"github.com/specialistvlad/osmium/internal/registry"
	"github.com/specialistvlad/osmium/modules/input"
	"github.com/specialistvlad/osmium/modules/output"
	"github.com/specialistvlad/osmium/modules/preview"
	"github.com/specialistvlad/osmium/modules/save"
	"github.com/specialistvlad/osmium/modules/value"
)

// coreModules is the definitive list of all modules that are compiled into
// the osmium binary.
func coreModules(cfg *Config) []registry.Module {
	return []registry.Module{
		&value.Module{},
		&input.Module{},
		&output.Module{},
		&save.Module{SuffixSize: len(cfg.Sizes) > 1},
		preview.New(cfg.PreviewURL, cfg.PreviewTimeout),
	}
}
