package pypi

import (
	"slices"

	pep440 "github.com/aquasecurity/go-pep440-version"
)

// Info is the typed view of a package's JSON API document.
type Info struct {
	Info            InfoBlock                `json:"info"`
	LastSerial      int64                    `json:"last_serial"`
	Releases        map[string][]ReleaseFile `json:"releases"`
	URLs            []ReleaseFile            `json:"urls"`
	Vulnerabilities []Vulnerability          `json:"vulnerabilities"`
}

// InfoBlock is the "info" section of a package document.
type InfoBlock struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Summary      string   `json:"summary"`
	HomePage     string   `json:"home_page"`
	ProjectURL   string   `json:"project_url"`
	License      string   `json:"license"`
	Description  string   `json:"description"`
	RequiresDist []string `json:"requires_dist"`
}

// ReleaseFile is one uploaded file of a release (sdist or wheel).
type ReleaseFile struct {
	Filename          string `json:"filename"`
	PackageType       string `json:"packagetype"` // "sdist" or "bdist_wheel"
	Size              int64  `json:"size"`
	UploadTime        string `json:"upload_time"`
	UploadTimeISO8601 string `json:"upload_time_iso_8601"`
	URL               string `json:"url"`
}

// Vulnerability is one advisory attached to a package document.
type Vulnerability struct {
	ID      string   `json:"id"`
	Aliases []string `json:"aliases"`
	Link    string   `json:"link"`
	Summary string   `json:"summary"`
	FixedIn []string `json:"fixed_in"`
}

// MainInfo is the condensed per-package summary: the headline metadata plus
// size and upload time of the current release's preferred file.
type MainInfo struct {
	Version           string   `json:"version"`
	Summary           string   `json:"summary"`
	HomePage          string   `json:"home_page"`
	ProjectURL        string   `json:"project_url"`
	License           string   `json:"license"`
	Description       string   `json:"description"`
	RequiresDist      []string `json:"requires_dist"`
	Size              int64    `json:"size,omitempty"`
	UploadTimeISO8601 string   `json:"upload_time_iso_8601,omitempty"`
}

// MainInfo condenses the document into the fields most callers want. The
// release file contributing size/upload time is the current version's first
// sdist, falling back to its first wheel.
func (i *Info) MainInfo() MainInfo {
	out := MainInfo{
		Version:      i.Info.Version,
		Summary:      i.Info.Summary,
		HomePage:     i.Info.HomePage,
		ProjectURL:   i.Info.ProjectURL,
		License:      i.Info.License,
		Description:  i.Info.Description,
		RequiresDist: i.Info.RequiresDist,
	}
	if i.Info.Version == "" {
		return out
	}
	files := i.Releases[i.Info.Version]
	if f, ok := preferredFile(files); ok {
		out.Size = f.Size
		out.UploadTimeISO8601 = f.UploadTimeISO8601
	}
	return out
}

// preferredFile picks the first sdist, or the first wheel when no sdist
// exists.
func preferredFile(files []ReleaseFile) (ReleaseFile, bool) {
	for _, f := range files {
		if f.PackageType == "sdist" {
			return f, true
		}
	}
	for _, f := range files {
		if f.PackageType == "bdist_wheel" {
			return f, true
		}
	}
	return ReleaseFile{}, false
}

// LatestReleaseUploadTime returns the upload time of the first file of the
// latest release, ordering release versions by PEP 440 comparison.
// Unparseable version strings sort last. Returns false when the document
// has no releases or the latest release has no files.
func (i *Info) LatestReleaseUploadTime() (string, bool) {
	versions := make([]string, 0, len(i.Releases))
	for v := range i.Releases {
		versions = append(versions, v)
	}
	if len(versions) == 0 {
		return "", false
	}

	slices.SortFunc(versions, func(a, b string) int {
		va, errA := pep440.Parse(a)
		vb, errB := pep440.Parse(b)
		switch {
		case errA != nil && errB != nil:
			return 0
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		default:
			return vb.Compare(va) // descending
		}
	})

	files := i.Releases[versions[0]]
	if len(files) == 0 {
		return "", false
	}
	return files[0].UploadTime, true
}
