package letter

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/config"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/utils"
)

// Fetcher loads raw image bytes for a named asset path
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// FileFetcher reads assets from a directory on disk
type FileFetcher struct {
	Dir string
}

func (f *FileFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(f.Dir, path))
}

// assetSlot names one of the five letter images together with its recovery
// path. Logos fall back to an alternate location; signatures fall back to
// omission (empty source).
type assetSlot struct {
	name     string
	path     string
	fallback string
}

// Resolver converts the five letter images into embeddable data URIs
type Resolver struct {
	fetcher Fetcher
	slots   [5]assetSlot
}

// NewResolver builds a resolver for the configured artwork
func NewResolver(fetcher Fetcher, assets config.AssetsConfig) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		slots: [5]assetSlot{
			{name: "institute_logo", path: assets.InstituteLogo, fallback: assets.InstituteLogoAlt},
			{name: "club_logo", path: assets.ClubLogo, fallback: assets.ClubLogoAlt},
			{name: "faculty_sign", path: assets.FacultySign},
			{name: "president_sign", path: assets.PresidentSign},
			{name: "vice_president_sign", path: assets.VicePresidentSign},
		},
	}
}

// dataURI wraps image bytes as an embeddable data URI
func dataURI(path string, data []byte) string {
	mime := "image/png"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".gif":
		mime = "image/gif"
	case ".svg":
		mime = "image/svg+xml"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}

// resolveSlot fetches one image, trying the fallback path on failure. Failures
// are recovered locally and never abort the batch: a slot with no fallback
// resolves to the empty string, which omits the image from the letter.
func (r *Resolver) resolveSlot(ctx context.Context, slot assetSlot) string {
	data, err := r.fetcher.Fetch(ctx, slot.path)
	if err == nil {
		return dataURI(slot.path, data)
	}

	utils.Log.Debug("Asset %s unavailable at %s: %v", slot.name, slot.path, err)
	if slot.fallback == "" {
		return ""
	}

	data, err = r.fetcher.Fetch(ctx, slot.fallback)
	if err != nil {
		utils.Log.Warn("Asset %s fallback %s also unavailable: %v", slot.name, slot.fallback, err)
		return ""
	}
	return dataURI(slot.fallback, data)
}

// Resolve fetches all five images concurrently and joins once every slot has
// settled. Each slot succeeds or falls back independently; one failure never
// short-circuits the others.
func (r *Resolver) Resolve(ctx context.Context) Images {
	var results [5]string
	var wg sync.WaitGroup

	for i, slot := range r.slots {
		wg.Add(1)
		go func(i int, slot assetSlot) {
			defer wg.Done()
			results[i] = r.resolveSlot(ctx, slot)
		}(i, slot)
	}
	wg.Wait()

	return Images{
		InstituteLogo:     results[0],
		ClubLogo:          results[1],
		FacultySign:       results[2],
		PresidentSign:     results[3],
		VicePresidentSign: results[4],
	}
}
