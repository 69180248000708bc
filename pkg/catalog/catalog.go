// Package catalog contiene el contenido localizado de los dominios del cuestionario
// (nombres, descripciones y soluciones por opción), embebido como YAML.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage idioma base; define el orden canónico de dominios.
const DefaultLanguage = "en"

//go:embed content/*.yaml
var contentFS embed.FS

// Solution una opción numerada de un dominio.
type Solution struct {
	Option      int    `yaml:"option"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Domain un tema fijo del cuestionario.
type Domain struct {
	Key         string     `yaml:"key"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Solutions   []Solution `yaml:"solutions"`
}

// Content contenido de un idioma.
type Content struct {
	Language string   `yaml:"language"`
	Domains  []Domain `yaml:"domains"`
}

// Catalog contenido por idioma. Es inmutable tras Load, seguro para uso concurrente.
type Catalog struct {
	order  []string
	byLang map[string]map[string]Domain
}

// Load lee el contenido embebido.
func Load() (*Catalog, error) {
	return LoadFS(contentFS, "content")
}

// MustLoad igual que Load; entra en pánico si el contenido embebido es inválido.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFS lee todos los *.yaml de dir. Debe existir el idioma por defecto.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: leer %s: %w", dir, err)
	}
	c := &Catalog{byLang: map[string]map[string]Domain{}}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("catalog: leer %s: %w", e.Name(), err)
		}
		var content Content
		if err := yaml.Unmarshal(raw, &content); err != nil {
			return nil, fmt.Errorf("catalog: parsear %s: %w", e.Name(), err)
		}
		lang := strings.ToLower(strings.TrimSpace(content.Language))
		if lang == "" {
			lang = strings.TrimSuffix(e.Name(), ".yaml")
		}
		domains := make(map[string]Domain, len(content.Domains))
		for _, d := range content.Domains {
			if d.Key == "" {
				return nil, fmt.Errorf("catalog: %s: dominio sin key", e.Name())
			}
			domains[d.Key] = d
		}
		c.byLang[lang] = domains
		if lang == DefaultLanguage {
			for _, d := range content.Domains {
				c.order = append(c.order, d.Key)
			}
		}
	}
	if _, ok := c.byLang[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("catalog: falta el idioma %q", DefaultLanguage)
	}
	return c, nil
}

// Keys claves de dominio en orden canónico.
func (c *Catalog) Keys() []string {
	return append([]string(nil), c.order...)
}

// Languages idiomas con contenido propio.
func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.byLang))
	for lang := range c.byLang {
		out = append(out, lang)
	}
	return out
}

// Domain devuelve el dominio en lang; si ese idioma no lo tiene usa el contenido en inglés.
func (c *Catalog) Domain(lang, key string) (Domain, bool) {
	if domains, ok := c.byLang[strings.ToLower(lang)]; ok {
		if d, ok := domains[key]; ok {
			return d, true
		}
	}
	d, ok := c.byLang[DefaultLanguage][key]
	return d, ok
}

// Solution busca la opción dentro del dominio localizado.
func (c *Catalog) Solution(lang, key string, option int) (Solution, bool) {
	d, ok := c.Domain(lang, key)
	if !ok {
		return Solution{}, false
	}
	for _, s := range d.Solutions {
		if s.Option == option {
			return s, true
		}
	}
	return Solution{}, false
}
