package controls

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/objects"
	"github.com/Faultbox/meshview/internal/engine/scene"
	"github.com/Faultbox/meshview/internal/logger"
)

// OpenOBJ loads an OBJ file, adds it to s and selects it. The object is
// named after the file, with a numeric suffix when the name is taken.
func OpenOBJ(s *scene.Scene, path string, opts ...objects.Option) (objects.Object, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := base
	for i := 2; ; i++ {
		if _, taken := s.Object(name); !taken {
			break
		}
		name = fmt.Sprintf("%s-%d", base, i)
	}

	o, err := scene.Build(config.ObjectConfig{Name: name, Type: "obj", Path: path}, "", opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Add(o); err != nil {
		return nil, err
	}
	s.Select(name)

	logger.Named("controls").Info("opened", zap.String("name", name), zap.String("path", path))
	return o, nil
}

// OpenOptions returns the options for a newly opened object: colors from cfg
// and the visibility currently shown by s.
func OpenOptions(cfg *config.Config, s *scene.Scene) []objects.Option {
	display := cfg.Display
	if len(s.Objects()) > 0 {
		display = DisplayOf(s)
	}
	return scene.Options(cfg.Render, display)
}

// SaveSettings stores the visibility flags in cfg and writes cfg to the
// user config file. It returns the path written.
func SaveSettings(cfg *config.Config, display config.DisplayConfig) (string, error) {
	cfg.Display = display
	if err := cfg.Save(); err != nil {
		return "", fmt.Errorf("saving settings: %w", err)
	}
	path := config.SettingsPath()
	logger.Named("controls").Info("settings saved", zap.String("path", path))
	return path, nil
}
