package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kovalyov-valentin/museum-news-feed/internal/model"
)

// FeedFile читает список лент из json или yaml файла
type FeedFile struct {
	Path string
}

// Feeds читает файл на каждый вызов. Если файла нет, лент тоже нет.
func (f FeedFile) Feeds(_ context.Context) ([]model.FeedSource, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.FeedSource{}, nil
		}
		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	var feeds []model.FeedSource

	switch ext := strings.ToLower(filepath.Ext(f.Path)); ext {
	case ".json":
		err = json.Unmarshal(data, &feeds)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &feeds)
	default:
		return nil, fmt.Errorf("unsupported feeds file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode feeds file %s: %w", f.Path, err)
	}

	result := make([]model.FeedSource, 0, len(feeds))
	for i, feed := range feeds {
		if feed.Name == "" || feed.URL == "" || feed.Region == "" {
			return nil, fmt.Errorf("feed #%d in %s: name, url and region are required", i, f.Path)
		}
		result = append(result, feed.WithDefaults())
	}

	return result, nil
}
