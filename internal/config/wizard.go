package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/manifoldco/promptui"
)

// detectSiteDir looks for a posts index below the working directory and
// returns the directory holding it.
func detectSiteDir() string {
	for _, candidate := range []string{".", "site", "public", "docs"} {
		if _, err := os.Stat(filepath.Join(candidate, "posts", "posts.json")); err == nil {
			return candidate
		}
	}
	return "."
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to blogdeck! Let's configure your blog.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Site directory.
	dirPrompt := promptui.Prompt{
		Label:   "Site directory (holds posts/posts.json)",
		Default: detectSiteDir(),
	}
	dir, err := dirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site dir: %w", err)
	}
	cfg.Site.Dir = dir

	// 2. Optional remote base URL.
	urlPrompt := promptui.Prompt{
		Label:    "Base URL to read posts from (leave blank to read the directory)",
		Validate: validateBaseURL,
	}
	baseURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	cfg.Site.BaseURL = baseURL

	// 3. Locale.
	localePrompt := promptui.Select{
		Label: "Select interface language",
		Items: []string{"ko (한국어)", "en (English)"},
	}
	localeIdx, _, err := localePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("locale selection: %w", err)
	}
	cfg.Locale = []string{"ko", "en"}[localeIdx]

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:    "Dev server port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 5. Page size.
	sizePrompt := promptui.Prompt{
		Label:    "Posts per page",
		Default:  strconv.Itoa(cfg.Listing.PageSize),
		Validate: validatePositive,
	}
	sizeStr, err := sizePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("page size: %w", err)
	}
	cfg.Listing.PageSize, _ = strconv.Atoi(sizeStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateBaseURL(s string) error {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("enter an http or https URL")
	}
	return nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return errors.New("enter a port between 1 and 65535")
	}
	return nil
}

func validatePositive(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return errors.New("enter a positive number")
	}
	return nil
}
