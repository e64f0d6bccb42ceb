package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/geometry"
	"github.com/df07/go-volumetric-raytracer/pkg/material"
	"github.com/df07/go-volumetric-raytracer/pkg/volume"
)

// Options customize a built-in scene
type Options struct {
	Camera        geometry.CameraConfig // Non-zero fields override the scene camera
	Density       volume.Volume         // Replaces the procedural density of smoke and cloud scenes
	GroundTexture material.ColorSource  // Replaces the checkered floor
	Logger        core.Logger
}

// Builder constructs a scene
type Builder func(opts Options) (*Scene, error)

// SceneInfo represents a scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "grid"
	FilePath    string `json:"filePath"`    // Path to the VOL file (grid type only)
	Integrator  string `json:"integrator"`  // Suggested integrator
}

type builtin struct {
	info  SceneInfo
	build Builder
}

var builtins = []builtin{
	{
		info: SceneInfo{
			ID:          "cornell-fog",
			DisplayName: "Foggy Cornell Box",
			Description: "Cornell box filled with homogeneous fog, a mirror ball and a glass ball",
			Integrator:  "mis",
		},
		build: NewFoggyCornellScene,
	},
	{
		info: SceneInfo{
			ID:          "smoke",
			DisplayName: "Smoke Ball",
			Description: "Heterogeneous smoke settling in a ball above a checkered floor",
			Integrator:  "mis",
		},
		build: NewSmokeScene,
	},
	{
		info: SceneInfo{
			ID:          "emissive-cloud",
			DisplayName: "Emissive Cloud",
			Description: "Glowing gas cloud lighting the floor next to a dim panel",
			Integrator:  "ems",
		},
		build: NewEmissiveCloudScene,
	},
	{
		info: SceneInfo{
			ID:          "fog-lantern",
			DisplayName: "Fog Lantern",
			Description: "Camera inside colored fog with a lantern and a point light",
			Integrator:  "mis",
		},
		build: NewFogLanternScene,
	},
	{
		info: SceneInfo{
			ID:          "caustic-glass",
			DisplayName: "Caustic Glass",
			Description: "Glass balls casting caustics from a point light",
			Integrator:  "ppm",
		},
		build: NewCausticGlassScene,
	},
}

// New builds the named scene. IDs of the form "smoke:<path>" load a VOL grid as the smoke density.
func New(id string, opts Options) (*Scene, error) {
	name, gridPath, hasGrid := strings.Cut(id, ":")
	if hasGrid {
		grid, err := volume.LoadGrid(gridPath)
		if err != nil {
			return nil, fmt.Errorf("scene %s: %w", id, err)
		}
		opts.Density = grid
		if opts.Logger != nil {
			opts.Logger.Printf("Loaded density grid %s (%d channels)\n", gridPath, grid.Channels())
		}
	}

	for _, b := range builtins {
		if b.info.ID == name {
			s, err := b.build(opts)
			if err != nil {
				return nil, fmt.Errorf("scene %s: %w", id, err)
			}
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown scene %q", id)
}

// Lookup returns the metadata of a built-in scene
func Lookup(id string) (SceneInfo, bool) {
	name, _, _ := strings.Cut(id, ":")
	for _, b := range builtins {
		if b.info.ID == name {
			return b.info, true
		}
	}
	return SceneInfo{}, false
}

// ListGridScenes scans the volumes directory for VOL grids and returns a smoke scene for each
func ListGridScenes() ([]SceneInfo, error) {
	// Try different possible paths for the volumes directory
	possiblePaths := []string{"volumes", "../volumes"}
	var volumesDir string

	for _, path := range possiblePaths {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			volumesDir = path
			break
		}
	}

	if volumesDir == "" {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(volumesDir, "*.vol"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan volumes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		scenes = append(scenes, SceneInfo{
			ID:          "smoke:" + filePath,
			DisplayName: "Smoke - " + titleCase(name),
			Description: "Smoke ball with density from " + filepath.Base(filePath),
			Group:       "Volume Grids",
			Type:        "grid",
			FilePath:    filePath,
			Integrator:  "mis",
		})
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ListAllScenes returns built-in scenes followed by discovered grid scenes
func ListAllScenes() ([]SceneInfo, error) {
	all := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		info := b.info
		info.Group = "Built-in Scenes"
		info.Type = "builtin"
		all = append(all, info)
	}

	grids, err := ListGridScenes()
	if err != nil {
		return nil, err
	}
	return append(all, grids...), nil
}

func mergeCamera(base geometry.CameraConfig, opts Options) geometry.CameraConfig {
	return geometry.MergeCameraConfig(base, opts.Camera)
}

// titleCase converts a filename-style string to title case
// e.g., "wdas-cloud" -> "Wdas Cloud"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
