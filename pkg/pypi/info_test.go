package pypi

import "testing"

func releases() map[string][]ReleaseFile {
	return map[string][]ReleaseFile{
		"1.0": {
			{Filename: "pkg-1.0.tar.gz", PackageType: "sdist", Size: 10, UploadTime: "2023-01-01T00:00:00"},
		},
		"1.10": {
			{Filename: "pkg-1.10-py3-none-any.whl", PackageType: "bdist_wheel", Size: 30, UploadTime: "2024-03-01T00:00:00", UploadTimeISO8601: "2024-03-01T00:00:00Z"},
			{Filename: "pkg-1.10.tar.gz", PackageType: "sdist", Size: 40, UploadTime: "2024-03-01T00:01:00", UploadTimeISO8601: "2024-03-01T00:01:00Z"},
		},
		"1.9": {
			{Filename: "pkg-1.9.tar.gz", PackageType: "sdist", Size: 20, UploadTime: "2024-01-01T00:00:00"},
		},
	}
}

func TestMainInfoPrefersSdist(t *testing.T) {
	info := &Info{
		Info: InfoBlock{
			Name:    "pkg",
			Version: "1.10",
			Summary: "a package",
		},
		Releases: releases(),
	}

	main := info.MainInfo()
	if main.Version != "1.10" || main.Summary != "a package" {
		t.Errorf("main = %+v", main)
	}
	// The sdist of 1.10, not the wheel listed first.
	if main.Size != 40 {
		t.Errorf("size = %d, want 40 (sdist)", main.Size)
	}
	if main.UploadTimeISO8601 != "2024-03-01T00:01:00Z" {
		t.Errorf("upload time = %q", main.UploadTimeISO8601)
	}
}

func TestMainInfoWheelFallback(t *testing.T) {
	info := &Info{
		Info: InfoBlock{Version: "2.0"},
		Releases: map[string][]ReleaseFile{
			"2.0": {{PackageType: "bdist_wheel", Size: 7}},
		},
	}
	if got := info.MainInfo().Size; got != 7 {
		t.Errorf("size = %d, want 7 (wheel fallback)", got)
	}
}

func TestMainInfoNoRelease(t *testing.T) {
	info := &Info{Info: InfoBlock{Version: "3.0"}, Releases: releases()}
	main := info.MainInfo()
	if main.Size != 0 || main.UploadTimeISO8601 != "" {
		t.Errorf("main = %+v, want no release fields", main)
	}
}

func TestLatestReleaseUploadTime(t *testing.T) {
	info := &Info{Releases: releases()}
	got, ok := info.LatestReleaseUploadTime()
	if !ok {
		t.Fatal("expected a result")
	}
	// 1.10 is the latest under PEP 440 ordering (not lexicographic).
	if got != "2024-03-01T00:00:00" {
		t.Errorf("upload time = %q, want the first file of 1.10", got)
	}
}

func TestLatestReleaseUploadTimeEmpty(t *testing.T) {
	info := &Info{}
	if _, ok := info.LatestReleaseUploadTime(); ok {
		t.Error("expected no result for empty releases")
	}

	info = &Info{Releases: map[string][]ReleaseFile{"1.0": {}}}
	if _, ok := info.LatestReleaseUploadTime(); ok {
		t.Error("expected no result when the latest release has no files")
	}
}
