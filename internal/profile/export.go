package profile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/selfcare/internal/model"
)

// Document is the export file's content.
type Document struct {
	User        model.UserProfile  `json:"user"`
	MoodEntries []model.MoodEntry  `json:"moodEntries"`
	TestResults []model.TestResult `json:"testResults"`
	ExportDate  time.Time          `json:"exportDate"`
}

// FileName returns the export file name for a given export time.
func FileName(at time.Time) string {
	return fmt.Sprintf("mental-health-data-%s.json", at.UTC().Format(time.DateOnly))
}

// Export snapshots sess into a Document stamped with the current time.
func (m *Manager) Export(sess *Session) (Document, error) {
	if err := requireSession(sess); err != nil {
		return Document{}, err
	}
	doc := Document{
		User:        sess.Profile,
		MoodEntries: slices.Clone(sess.Moods),
		TestResults: slices.Clone(sess.Results),
		ExportDate:  m.clock.Now().UTC(),
	}
	if doc.MoodEntries == nil {
		doc.MoodEntries = []model.MoodEntry{}
	}
	if doc.TestResults == nil {
		doc.TestResults = []model.TestResult{}
	}
	return doc, nil
}

// WriteExport exports sess into dir and returns the written file's path.
func (m *Manager) WriteExport(sess *Session, dir string) (string, error) {
	doc, err := m.Export(sess)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(doc.ExportDate))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := EncodeDocument(f, doc); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}

	m.logger.Info("data exported", zap.String("user", sess.Key), zap.String("path", path))
	return path, nil
}

// EncodeDocument writes doc as JSON indented by two spaces.
func EncodeDocument(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// DecodeDocument reads a Document written by EncodeDocument.
func DecodeDocument(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode export: %w", err)
	}
	return doc, nil
}
