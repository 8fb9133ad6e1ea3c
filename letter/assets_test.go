package letter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/config"
)

// mockFetcher serves byte payloads by path and records every request
type mockFetcher struct {
	mu      sync.Mutex
	data    map[string][]byte
	fetched []string
}

func (m *mockFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, path)
	m.mu.Unlock()

	if data, ok := m.data[path]; ok {
		return data, nil
	}
	return nil, errors.New("not found")
}

func testAssets() config.AssetsConfig {
	return config.AssetsConfig{
		InstituteLogo:     "Logos/VITB_logo.png",
		InstituteLogoAlt:  "VITB logo.png",
		ClubLogo:          "Logos/club.png",
		ClubLogoAlt:       "club.png",
		FacultySign:       "Signs/faculty.jpg",
		PresidentSign:     "Signs/president.jpg",
		VicePresidentSign: "Signs/vp.jpg",
	}
}

func TestResolve_AllSlotsSucceed(t *testing.T) {
	fetcher := &mockFetcher{data: map[string][]byte{
		"Logos/VITB_logo.png": []byte("inst"),
		"Logos/club.png":      []byte("club"),
		"Signs/faculty.jpg":   []byte("fac"),
		"Signs/president.jpg": []byte("pres"),
		"Signs/vp.jpg":        []byte("vp"),
	}}

	images := NewResolver(fetcher, testAssets()).Resolve(context.Background())

	assert.True(t, strings.HasPrefix(images.InstituteLogo, "data:image/png;base64,"))
	assert.True(t, strings.HasPrefix(images.ClubLogo, "data:image/png;base64,"))
	assert.True(t, strings.HasPrefix(images.FacultySign, "data:image/jpeg;base64,"))
	assert.True(t, strings.HasPrefix(images.PresidentSign, "data:image/jpeg;base64,"))
	assert.True(t, strings.HasPrefix(images.VicePresidentSign, "data:image/jpeg;base64,"))
}

func TestResolve_PartialFailureUsesFallbacksAndProceeds(t *testing.T) {
	// Both logo primaries fail; their alternates and the three signatures
	// succeed. The batch must complete with every slot settled.
	fetcher := &mockFetcher{data: map[string][]byte{
		"VITB logo.png":       []byte("inst-alt"),
		"club.png":            []byte("club-alt"),
		"Signs/faculty.jpg":   []byte("fac"),
		"Signs/president.jpg": []byte("pres"),
		"Signs/vp.jpg":        []byte("vp"),
	}}

	images := NewResolver(fetcher, testAssets()).Resolve(context.Background())

	assert.NotEmpty(t, images.InstituteLogo)
	assert.NotEmpty(t, images.ClubLogo)
	assert.NotEmpty(t, images.FacultySign)
	assert.NotEmpty(t, images.PresidentSign)
	assert.NotEmpty(t, images.VicePresidentSign)

	assert.Contains(t, fetcher.fetched, "VITB logo.png")
	assert.Contains(t, fetcher.fetched, "club.png")
}

func TestResolve_SignatureFailureResolvesToOmission(t *testing.T) {
	fetcher := &mockFetcher{data: map[string][]byte{
		"Logos/VITB_logo.png": []byte("inst"),
		"Logos/club.png":      []byte("club"),
		"Signs/president.jpg": []byte("pres"),
	}}

	images := NewResolver(fetcher, testAssets()).Resolve(context.Background())

	// Signatures have no fallback path: a failed fetch empties the slot so
	// the renderer omits the image, without touching the other slots
	assert.Empty(t, images.FacultySign)
	assert.Empty(t, images.VicePresidentSign)
	assert.NotEmpty(t, images.PresidentSign)
	assert.NotEmpty(t, images.InstituteLogo)
}

func TestResolve_TotalFailureStillSettles(t *testing.T) {
	fetcher := &mockFetcher{data: map[string][]byte{}}

	images := NewResolver(fetcher, testAssets()).Resolve(context.Background())

	assert.Empty(t, images.InstituteLogo)
	assert.Empty(t, images.ClubLogo)
	assert.Empty(t, images.FacultySign)
	assert.Empty(t, images.PresidentSign)
	assert.Empty(t, images.VicePresidentSign)
}

func TestFileFetcher_ReadsFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Logos"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Logos", "x.png"), []byte("png-bytes"), 0644))

	fetcher := &FileFetcher{Dir: dir}

	data, err := fetcher.Fetch(context.Background(), "Logos/x.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	_, err = fetcher.Fetch(context.Background(), "Logos/missing.png")
	assert.Error(t, err)
}

func TestDataURI_MimeByExtension(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.png", "data:image/png;base64,"},
		{"a.jpg", "data:image/jpeg;base64,"},
		{"a.JPEG", "data:image/jpeg;base64,"},
		{"a.gif", "data:image/gif;base64,"},
		{"a.svg", "data:image/svg+xml;base64,"},
		{"a.unknown", "data:image/png;base64,"},
	}

	for _, tt := range tests {
		assert.True(t, strings.HasPrefix(dataURI(tt.path, []byte("x")), tt.want), tt.path)
	}
}
