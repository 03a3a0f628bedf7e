package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stonecatalog/internal"
)

const generatedBanner = "// This file is auto-generated by cmd/catalog-build. Do not edit.\n"

// Rendered holds both generated modules before anything touches the disk.
type Rendered struct {
	Products   []byte
	Categories []byte
}

func Render(cat *internal.Catalog) (Rendered, error) {
	materials, err := literal(cat.Materials)
	if err != nil {
		return Rendered{}, fmt.Errorf("render materials: %w", err)
	}
	products, err := literal(cat.Products)
	if err != nil {
		return Rendered{}, fmt.Errorf("render products: %w", err)
	}
	categories, err := literal(cat.Categories)
	if err != nil {
		return Rendered{}, fmt.Errorf("render categories: %w", err)
	}

	var pf strings.Builder
	pf.WriteString(generatedBanner)
	pf.WriteString("import type { Material, Product } from \"@/types/product\";\n\n")
	pf.WriteString("export const MATERIALS: Material[] = " + materials + ";\n\n")
	pf.WriteString("export const PRODUCTS: Product[] = " + products + ";\n")

	var cf strings.Builder
	cf.WriteString(generatedBanner)
	cf.WriteString("import type { ProductCategories } from \"@/types/product\";\n\n")
	cf.WriteString("export const PRODUCT_CATEGORIES: ProductCategories = " + categories + ";\n")

	return Rendered{Products: []byte(pf.String()), Categories: []byte(cf.String())}, nil
}

// WriteFiles stages both modules as temp files next to their targets and
// renames them into place only after both were written, so a failed write
// leaves the previous outputs untouched.
func (r Rendered) WriteFiles(productsPath, categoriesPath string) error {
	outputs := []struct {
		path string
		data []byte
	}{
		{productsPath, r.Products},
		{categoriesPath, r.Categories},
	}

	for _, out := range outputs {
		if info, err := os.Stat(out.path); err == nil && info.IsDir() {
			return fmt.Errorf("output %s is a directory", out.path)
		}
		if err := os.MkdirAll(filepath.Dir(out.path), 0o755); err != nil {
			return err
		}
	}

	staged := make([]string, 0, len(outputs))
	defer func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}()
	for _, out := range outputs {
		tmp, err := stageFile(out.path, out.data)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	for i, out := range outputs {
		if err := os.Rename(staged[i], out.path); err != nil {
			return err
		}
	}
	return nil
}

func stageFile(path string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return tmp, nil
}

// literal renders v as a two-space indented JSON literal without HTML
// escaping, which is also valid TypeScript.
func literal(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
