package output

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReporter_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false, false)

	r.Destination("/app/public")
	r.Entry(ActionLinked, "storage/app/media")
	r.Entry(ActionIgnoring, "/app/storage/temp/public")
	r.File(ActionLinked, "storage/app/media/photo.jpg")
	r.Summary("Mirror")

	// A bytes.Buffer is not a terminal, so no escape codes are emitted.
	assert.Equal(t, strings.Join([]string{
		"Destination: /app/public",
		"Linked: storage/app/media",
		"Ignoring: /app/storage/temp/public",
		"Mirror complete!",
		"",
	}, "\n"), buf.String())
}

func TestReporter_VerboseFiles(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, true, true)
	assert.True(t, r.Verbose())

	r.File(ActionCopied, "storage/app/media/photo.jpg")
	r.File(ActionIgnoring, "storage/app/media/config.secret")

	assert.Equal(t, "Copied: storage/app/media/photo.jpg\nIgnoring: storage/app/media/config.secret\n", buf.String())
}

func TestReporter_UploadLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false, true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Uploading("public/robots.txt")
			r.Uploaded("public/robots.txt")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 40)
	for _, l := range lines {
		assert.True(t, l == "Uploading: public/robots.txt" || l == "Complete: public/robots.txt", l)
	}
}

func TestReporter_Error(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false, true)
	r.Error(errors.New("boom"))
	r.Printf("%d entries", 3)

	assert.Equal(t, "Error: boom\n3 entries\n", buf.String())
}

func TestDiscard(t *testing.T) {
	r := Discard()
	r.Summary("Delete")
	assert.False(t, r.Verbose())
}

func TestReporter_Planned(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false, true)
	r.Planned(ActionLinked, "storage/app/media")
	r.Planned(ActionDeleted, "storage/app/media")
	r.Planned(ActionIgnoring, "x")

	assert.Equal(t, "Would link: storage/app/media\nWould delete: storage/app/media\nIgnoring: x\n", buf.String())
}
