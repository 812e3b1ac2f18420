// Package seed loads catalog fixtures and applies them to the product store.
package seed

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

type File struct {
	Folders  []FolderEntry  `yaml:"folders"`
	Products []ProductEntry `yaml:"products"`
}

type FolderEntry struct {
	Name        string `yaml:"name" validate:"required,max=100"`
	Description string `yaml:"description"`
	Color       string `yaml:"color" validate:"omitempty,hexcolor"`
	Icon        string `yaml:"icon"`
	Order       int    `yaml:"order" validate:"gte=0"`
}

// ProductEntry is one seeded product. Folder refers to a folder by name; an
// empty folder puts the product in Unassigned.
type ProductEntry struct {
	Name        string  `yaml:"name" csv:"name" validate:"required,max=200"`
	Price       float64 `yaml:"price" csv:"price" validate:"gte=0"`
	Quantity    int     `yaml:"quantity" csv:"quantity" validate:"gte=0"`
	Description string  `yaml:"description" csv:"description"`
	Category    string  `yaml:"category" csv:"category"`
	Folder      string  `yaml:"folder" csv:"folder"`
	ProductID   string  `yaml:"product_id" csv:"product_id"`
	PriceID     string  `yaml:"price_id" csv:"price_id"`
	ImageURL    string  `yaml:"image_url" csv:"image_url"`
	Source      string  `yaml:"source" csv:"source" validate:"omitempty,oneof=mongodb ghl manual local"`
}

var validate = validator.New()

// Load reads a seed file, choosing the format by extension.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return ParseYAML(f)
	case ".csv":
		return ParseCSV(f)
	default:
		return nil, fmt.Errorf("unsupported seed file type %q", ext)
	}
}

func ParseYAML(r io.Reader) (*File, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// ParseCSV reads a product-only seed with a header row. Folders are created
// on demand from the folder column.
func ParseCSV(r io.Reader) (*File, error) {
	var products []ProductEntry
	if err := gocsv.Unmarshal(r, &products); err != nil {
		return nil, fmt.Errorf("parse seed csv: %w", err)
	}
	file := &File{Products: products}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return file, nil
}

func (f *File) Validate() error {
	names := make(map[string]bool, len(f.Folders))
	for i, folder := range f.Folders {
		if err := validate.Struct(folder); err != nil {
			return fmt.Errorf("folder %d (%q): %w", i, folder.Name, err)
		}
		if names[folder.Name] {
			return fmt.Errorf("folder %q listed twice", folder.Name)
		}
		names[folder.Name] = true
	}
	for i, p := range f.Products {
		if err := validate.Struct(p); err != nil {
			return fmt.Errorf("product %d (%q): %w", i, p.Name, err)
		}
	}
	return nil
}
