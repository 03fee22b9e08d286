package resources

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"fyne.io/fyne/v2"
)

const (
	iconDir  = "icon/"
	soundDir = "sounds"

	// IconFile is the application and tray icon.
	IconFile = "pomobell.png"
)

//go:embed icon/*.png
var iconFS embed.FS

//go:embed sounds/*.wav
var soundFS embed.FS

var iconCache sync.Map

// Icon returns a Fyne resource for the given icon file.
func Icon(fileName string) (fyne.Resource, error) {
	return loadResource(iconFS, iconDir+fileName, &iconCache)
}

// MustIcon returns a Fyne resource or panics on error.
func MustIcon(fileName string) fyne.Resource {
	resource, err := Icon(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

// Sounds returns the embedded notification sounds, rooted at the sound directory.
func Sounds() fs.FS {
	sub, err := fs.Sub(soundFS, soundDir)
	if err != nil {
		panic(fmt.Sprintf("embedded sounds: %v", err))
	}
	return sub
}

func loadResource(fsys embed.FS, path string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(path, data)
	cache.Store(path, resource)
	return resource, nil
}
