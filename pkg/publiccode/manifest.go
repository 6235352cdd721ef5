// Package publiccode parses publiccode.yml manifests.
//
// Only the fields shown in search results are decoded; unknown keys are
// ignored so newer manifest versions still parse.
package publiccode

import (
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"

	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
)

// FileName is the manifest file name searched for.
const FileName = "publiccode.yml"

// Manifest is a decoded publiccode.yml.
type Manifest struct {
	Version           string                 `yaml:"publiccodeYmlVersion" json:"publiccode_yml_version"`
	Name              string                 `yaml:"name" json:"name"`
	URL               string                 `yaml:"url" json:"url"`
	LandingURL        string                 `yaml:"landingURL" json:"landing_url,omitempty"`
	ReleaseDate       string                 `yaml:"releaseDate" json:"release_date,omitempty"`
	DevelopmentStatus string                 `yaml:"developmentStatus" json:"development_status,omitempty"`
	SoftwareType      string                 `yaml:"softwareType" json:"software_type,omitempty"`
	Categories        []string               `yaml:"categories" json:"categories,omitempty"`
	Platforms         []string               `yaml:"platforms" json:"platforms,omitempty"`
	Legal             Legal                  `yaml:"legal" json:"legal"`
	Maintenance       Maintenance            `yaml:"maintenance" json:"maintenance"`
	Descriptions      map[string]Description `yaml:"description" json:"description,omitempty"`
	Localisation      Localisation           `yaml:"localisation" json:"localisation"`
}

// Legal holds licensing information.
type Legal struct {
	License string `yaml:"license" json:"license"`
}

// Maintenance says who maintains the software.
type Maintenance struct {
	Type string `yaml:"type" json:"type"`
}

// Description is the text for one language.
type Description struct {
	ShortDescription string   `yaml:"shortDescription" json:"short_description,omitempty"`
	LongDescription  string   `yaml:"longDescription" json:"long_description,omitempty"`
	Features         []string `yaml:"features" json:"features,omitempty"`
}

// Localisation lists the languages the software is available in.
type Localisation struct {
	AvailableLanguages []string `yaml:"availableLanguages" json:"available_languages,omitempty"`
}

// Parse decodes a manifest. A document without a name is rejected.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid %s", FileName)
	}
	if m.Name == "" {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "invalid %s: missing name", FileName)
	}
	return &m, nil
}

// Description returns the description in lang, falling back to English and
// then to the first language in sorted order. ok is false when the manifest
// has no descriptions.
func (m *Manifest) Description(lang string) (d Description, resolved string, ok bool) {
	if len(m.Descriptions) == 0 {
		return Description{}, "", false
	}
	for _, l := range []string{lang, "en", "eng"} {
		if d, ok := m.Descriptions[l]; ok && l != "" {
			return d, l, true
		}
	}
	first := slices.Sorted(maps.Keys(m.Descriptions))[0]
	return m.Descriptions[first], first, true
}

// Languages returns the description languages in sorted order.
func (m *Manifest) Languages() []string {
	return slices.Sorted(maps.Keys(m.Descriptions))
}

func (m *Manifest) String() string {
	return fmt.Sprintf("%s (%s, %s)", m.Name, m.DevelopmentStatus, m.Legal.License)
}
