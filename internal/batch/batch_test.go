package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/LeonarddeR/ReaDaisy/internal/book"
	"github.com/LeonarddeR/ReaDaisy/internal/ledger"
	"github.com/LeonarddeR/ReaDaisy/internal/logging"
	"github.com/LeonarddeR/ReaDaisy/internal/nav"
)

const nccTemplate = `<?xml version="1.0" encoding="utf-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>%s</title></head>
<body>
  <h1 id="b1"><a href="%s#p1">%s</a></h1>
</body>
</html>`

func smilDoc(src string, spans ...[2]float64) string {
	doc := "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<smil>\n<head>\n  <meta name=\"ncc:totalElapsedTime\" content=\"0:00:00\" />\n</head>\n<body>\n  <seq>\n    <par id=\"p1\">\n"
	for i, span := range spans {
		doc += fmt.Sprintf("      <audio src=%q clip-begin=\"npt=%.3fs\" clip-end=\"npt=%.3fs\" id=\"a%d\" />\n", src, span[0], span[1], i)
	}
	return doc + "    </par>\n  </seq>\n</body>\n</smil>\n"
}

func writeBookDir(t *testing.T, dir, title, smilName, audioName string, spans ...[2]float64) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"ncc.html":  fmt.Sprintf(nccTemplate, title, smilName, title),
		smilName:    smilDoc(audioName, spans...),
		audioName:   "fake audio payload for " + title,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeBookDir(t, filepath.Join(root, "shelf", "alpha"), "Alpha", "a.smil", "a.mp3", [2]float64{0, 10})
	writeBookDir(t, filepath.Join(root, "beta"), "Beta", "b.smil", "b.mp3", [2]float64{0, 5})
	// Book-internal subdirectories must not be treated as separate books.
	writeBookDir(t, filepath.Join(root, "beta", "backup"), "Backup", "c.smil", "c.mp3", [2]float64{0, 5})
	if err := os.MkdirAll(filepath.Join(root, "empty", "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	dirs, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	want := []string{
		filepath.Join(root, "beta"),
		filepath.Join(root, "shelf", "alpha"),
	}
	if len(dirs) != len(want) {
		t.Fatalf("Discover() = %v, want %v", dirs, want)
	}
	for i := range want {
		if dirs[i] != want[i] {
			t.Errorf("dir %d = %q, want %q", i, dirs[i], want[i])
		}
	}
}

func TestRunConvertsBatch(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeBookDir(t, filepath.Join(input, "01_alpha"), "Alpha", "a.smil", "a.mp3",
		[2]float64{0, 10}, [2]float64{10, 25})
	writeBookDir(t, filepath.Join(input, "02_beta"), "Beta", "b.smil", "b.mp3",
		[2]float64{0, 5})
	// Navigation referencing a SMIL document that does not exist.
	broken := filepath.Join(input, "03_broken")
	if err := os.MkdirAll(broken, 0o755); err != nil {
		t.Fatal(err)
	}
	ncc := fmt.Sprintf(nccTemplate, "Broken", "missing.smil", "Broken")
	if err := os.WriteFile(filepath.Join(broken, "ncc.html"), []byte(ncc), 0o644); err != nil {
		t.Fatal(err)
	}

	summary, err := Run(context.Background(), Options{
		InputRoot:  input,
		OutputRoot: output,
		Workers:    2,
		Logger:     logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Directories != 3 {
		t.Errorf("Directories = %d, want 3", summary.Directories)
	}
	if summary.Converted != 2 || summary.Failed != 1 {
		t.Fatalf("converted/failed = %d/%d, want 2/1", summary.Converted, summary.Failed)
	}
	if summary.TotalLength != 30 {
		t.Errorf("TotalLength = %v, want 30", summary.TotalLength)
	}

	// Numbering continues across source directories.
	for _, path := range []string{
		filepath.Join(output, "Alpha", "01-01 - Alpha.mp3"),
		filepath.Join(output, "Alpha", "Alpha.rpp"),
		filepath.Join(output, "Beta", "02-01 - Beta.mp3"),
		filepath.Join(output, "Beta", "Beta.rpp"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing output %s: %v", path, err)
		}
	}

	var brokenResult *BookResult
	for i := range summary.Results {
		if summary.Results[i].SourceDir == broken {
			brokenResult = &summary.Results[i]
		}
	}
	if brokenResult == nil || brokenResult.Err == nil {
		t.Fatalf("broken directory should appear as a failed result")
	}
	if !errors.Is(brokenResult.Err, nav.ErrUnresolvedReference) {
		t.Errorf("broken dir error = %v, want ErrUnresolvedReference", brokenResult.Err)
	}
}

func TestRunNoBooks(t *testing.T) {
	_, err := Run(context.Background(), Options{
		InputRoot:  t.TempDir(),
		OutputRoot: t.TempDir(),
		Logger:     logging.NewNop(),
	})
	if !errors.Is(err, book.ErrNoBooksFound) {
		t.Errorf("Run() error = %v, want ErrNoBooksFound", err)
	}
}

func TestRunRecordsLedger(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeBookDir(t, filepath.Join(input, "alpha"), "Alpha", "a.smil", "a.mp3", [2]float64{0, 10})

	store, err := ledger.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	summary, err := Run(context.Background(), Options{
		InputRoot:  input,
		OutputRoot: output,
		Logger:     logging.NewNop(),
		Ledger:     store,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("RunID should be set when a ledger store is configured")
	}

	runs, err := store.RecentRuns(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].BooksTotal != 1 || runs[0].BooksFailed != 0 {
		t.Fatalf("recorded runs = %+v", runs)
	}
	books, err := store.RunBooks(context.Background(), summary.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 1 || books[0].Title != "Alpha" || books[0].Status != ledger.StatusConverted {
		t.Errorf("recorded books = %+v", books)
	}
}
