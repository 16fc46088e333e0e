package translator

import "github.com/me/wfsynth/pkg/model"

// DefaultContainer is used when no image is configured for a provider and language.
const DefaultContainer = "ghcr.io/faasr/github-actions-tidyverse:latest"

// ContainerTable maps provider name → language → container image.
type ContainerTable map[string]map[model.Language]string

// Set records the image for (provider, lang).
func (t ContainerTable) Set(provider string, lang model.Language, image string) {
	if t[provider] == nil {
		t[provider] = make(map[model.Language]string)
	}
	t[provider][lang] = image
}

// Resolve returns the image for (provider, lang), or DefaultContainer.
func (t ContainerTable) Resolve(provider string, lang model.Language) string {
	if byLang, ok := t[provider]; ok {
		if image := byLang[lang]; image != "" {
			return image
		}
	}
	return DefaultContainer
}
