package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/minio/selfupdate"
	"github.com/spf13/cobra"

	"github.com/syedshahzad7/diabetes-visualization/internal/execcontext"
	"github.com/syedshahzad7/diabetes-visualization/internal/style"
)

// releasesURL points at the latest GitHub release; tests override it.
var releasesURL = "https://api.github.com/repos/syedshahzad7/diabetes-visualization/releases/latest"

var httpClient = &http.Client{Timeout: 30 * time.Second}

type GitHubRelease struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update labelcount to the latest release",
	Long: `Check GitHub for the latest labelcount release and replace the running
binary with the build for this platform.`,
	Example: `
  labelcount update          # Update to the latest version
  labelcount update --check  # Only report whether an update exists
  labelcount update --force  # Reinstall even when up to date`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		checkOnly, _ := cmd.Flags().GetBool("check")
		force, _ := cmd.Flags().GetBool("force")
		return runUpdate(newRunContext(cmd), checkOnly, force)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().Bool("check", false, "only check for updates without updating")
	updateCmd.Flags().Bool("force", false, "force update even if already on latest version")
}

func runUpdate(runCtx execcontext.RunContext, checkOnly, force bool) error {
	release, err := fetchLatestRelease(runCtx.Context, releasesURL)
	if err != nil {
		return err
	}

	outdated := isOutdated(Version, release.TagName)
	if checkOnly {
		if outdated {
			fmt.Fprintf(runCtx.StdOut, "%s A newer version (%s) is available! Run 'labelcount update' to upgrade.\n", style.InfoIcon(), release.TagName)
		} else {
			fmt.Fprintf(runCtx.StdOut, "%s You are running the latest version (%s)\n", style.SuccessIcon(), Version)
		}
		return nil
	}

	if !outdated && !force {
		fmt.Fprintf(runCtx.StdOut, "%s You are already running the latest version (%s)\n", style.SuccessIcon(), Version)
		return nil
	}

	downloadURL, err := assetURL(release, runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}

	fmt.Fprintf(runCtx.StdOut, "%s Downloading labelcount %s...\n", style.InfoIcon(), release.TagName)
	if err := applyUpdate(runCtx.Context, downloadURL); err != nil {
		return err
	}

	fmt.Fprintf(runCtx.StdOut, "%s Successfully updated to labelcount %s!\n", style.SuccessIcon(), release.TagName)
	return nil
}

// fetchLatestRelease gets the latest release from the GitHub API
func fetchLatestRelease(ctx context.Context, url string) (*GitHubRelease, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch release info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release info: %w", err)
	}
	return &release, nil
}

// assetURL finds the binary built for goos/goarch.
func assetURL(release *GitHubRelease, goos, goarch string) (string, error) {
	assetName := fmt.Sprintf("labelcount_%s_%s", goos, goarch)
	if goos == "windows" {
		assetName += ".exe"
	}

	for _, asset := range release.Assets {
		if strings.Contains(asset.Name, assetName) {
			return asset.BrowserDownloadURL, nil
		}
	}

	return "", fmt.Errorf("no binary found for platform %s/%s in release %s", goos, goarch, release.TagName)
}

// isOutdated reports whether latest is newer than current. Development builds
// and unparsable versions count as outdated whenever the strings differ.
func isOutdated(current, latest string) bool {
	currentVersion := normalizeVersion(current)
	latestVersion := normalizeVersion(latest)

	currentSemver, err1 := semver.NewVersion(currentVersion)
	latestSemver, err2 := semver.NewVersion(latestVersion)
	if err1 == nil && err2 == nil {
		return currentSemver.LessThan(latestSemver)
	}

	return currentVersion != latestVersion
}

// applyUpdate downloads the binary and swaps it for the running executable.
func applyUpdate(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download binary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	return replaceExecutable(resp.Body)
}

func replaceExecutable(body io.Reader) error {
	if err := selfupdate.Apply(body, selfupdate.Options{}); err != nil {
		if rerr := selfupdate.RollbackError(err); rerr != nil {
			return fmt.Errorf("update failed and rollback failed: %w", rerr)
		}
		return fmt.Errorf("apply update: %w", err)
	}
	return nil
}

// normalizeVersion removes 'v' prefix from version strings
func normalizeVersion(version string) string {
	return strings.TrimPrefix(version, "v")
}
