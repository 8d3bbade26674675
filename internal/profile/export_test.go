package profile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/selfcare/internal/model"
	"github.com/roach88/selfcare/internal/testutil"
)

func sampleDocument() Document {
	epoch := testutil.DefaultEpoch
	return Document{
		User: model.UserProfile{
			Name:       "Ana",
			Email:      "ana@example.com",
			Credential: "hashed-credential",
		},
		MoodEntries: []model.MoodEntry{{
			ID:          "mood-0001",
			Timestamp:   epoch,
			Emotion:     model.EmotionCalm,
			StressLevel: 3,
			Note:        "evening walk",
		}},
		TestResults: []model.TestResult{{
			ID:                "test-0001",
			Timestamp:         epoch.Add(30 * time.Minute),
			QuestionnaireName: "Stress level test",
			AverageScore:      1.5,
			Level:             model.LevelLow,
			Recommendations:   []string{"Your state is within the normal range"},
		}},
		ExportDate: epoch.Add(time.Hour),
	}
}

func TestEncodeDocument_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeDocument(&buf, sampleDocument()))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "export_document", buf.Bytes())
}

func TestDocument_RoundTrip(t *testing.T) {
	want := sampleDocument()
	want.MoodEntries = append(want.MoodEntries, model.MoodEntry{
		ID:          "mood-0002",
		Timestamp:   testutil.DefaultEpoch.Add(90*time.Minute + 250*time.Millisecond),
		Emotion:     model.EmotionAnxious,
		StressLevel: 9,
		Note:        "deadline <friday> & \"quotes\"",
	})

	var buf bytes.Buffer
	require.NoError(t, EncodeDocument(&buf, want))

	got, err := DecodeDocument(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeDocument_RejectsUnknownFields(t *testing.T) {
	_, err := DecodeDocument(bytes.NewBufferString(`{"user":{},"extra":1}`))
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	at := time.Date(2025, time.March, 9, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	assert.Equal(t, "mental-health-data-2025-03-10.json", FileName(at))
}

func TestExport_RequiresSession(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.mgr.Export(nil)
	assert.True(t, model.HasCode(err, model.CodeNoSession))
}

func TestWriteExport(t *testing.T) {
	f := newFixture(t, nil)
	sess := f.register(t)
	dir := t.TempDir()

	path, err := f.mgr.WriteExport(sess, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mental-health-data-2025-01-06.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := DecodeDocument(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, sess.Profile, doc.User)
	assert.Empty(t, doc.MoodEntries)
	assert.Equal(t, testutil.DefaultEpoch, doc.ExportDate)
	assert.Contains(t, string(data), "\"moodEntries\": [],\n")
}

func TestWriteExport_MissingDir(t *testing.T) {
	f := newFixture(t, nil)
	sess := f.register(t)

	_, err := f.mgr.WriteExport(sess, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
