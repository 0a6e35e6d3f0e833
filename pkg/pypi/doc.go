// Package pypi is a read-only view over the PyPI package index.
//
// # Overview
//
// [Client] talks to the two PyPI surfaces that matter here: the JSON API
// (per-package info documents) and the HTML pages with no API equivalent
// (the simple index listing every project name, and per-user project
// pages). Responses are cached through [cache.Cache] and transient
// failures are retried.
//
// [Index] layers a mapping-like view on top: a snapshot of project names
// (all of PyPI, one user's projects, or an explicit collection) with live
// info lookups. The name snapshot is always constructed explicitly by the
// caller; there is no implicit global state.
//
//	backend, _ := cache.NewFileCache(dir)
//	client := pypi.NewClient(backend, 24*time.Hour)
//
//	list, ok, _ := pypi.LoadNameList(ctx, backend)
//	if !ok {
//	    _, _, err = pypi.RefreshNameList(ctx, client, backend)
//	}
//	ix := pypi.NewIndexFromNameList(client, list)
//	info, _ := ix.Info(ctx, "numpy", false)
//
// [DownloadInfos] batch-fetches info documents into a [store.Store],
// reporting per-item success and failure explicitly.
//
// [cache.Cache]: github.com/pypeek/pypeek/pkg/cache.Cache
// [store.Store]: github.com/pypeek/pypeek/pkg/store.Store
package pypi
