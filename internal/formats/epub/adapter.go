// Package epub provides the EPUB format adapter. The standard pass walks the
// container to the OPF package document and reads content in spine order; the
// aggressive pass ignores the package structure entirely and scavenges every
// content-like file in the archive, for EPUBs with damaged or missing
// manifests.
package epub

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/danteata/spiritammo/core/confidence"
	"github.com/danteata/spiritammo/core/doc"
	"github.com/danteata/spiritammo/internal/formats"
)

// Extraction method labels.
const (
	MethodStandard   = "epub-standard"
	MethodAggressive = "epub-aggressive"
)

// The aggressive pass escalates when the standard pass recovers less than
// minStandardChars of text or scores below minStandardConfidence.
const (
	minStandardChars      = 50
	minStandardConfidence = 40
)

// Aggressive-pass tuning: a file must score at least fileScoreThreshold to
// contribute, and at most maxAggressiveFiles contribute overall.
const (
	fileScoreThreshold = 30
	maxAggressiveFiles = 20
)

// Adapter extracts text from EPUB documents.
type Adapter struct {
	logger *slog.Logger
}

// New creates the EPUB adapter.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{logger: logger}
}

// Format implements formats.Adapter.
func (a *Adapter) Format() doc.Format {
	return doc.FormatEPUB
}

// Extract implements formats.Adapter. The standard pass always runs; the
// aggressive pass runs only when the standard result is missing, short or
// low-confidence, and both attempts are returned so the acquisition layer can
// compare them.
func (a *Adapter) Extract(ctx context.Context, data []byte) []formats.Attempt {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		reason := "not a zip archive: " + err.Error()
		return []formats.Attempt{
			formats.Failed(MethodStandard, reason),
			formats.Failed(MethodAggressive, reason),
		}
	}

	std := a.extractStandard(zr)
	attempts := []formats.Attempt{std}

	if std.ErrorReason != "" || len(std.Text) < minStandardChars || std.Confidence < minStandardConfidence {
		a.logger.Debug("standard epub pass insufficient, escalating",
			"chars", len(std.Text), "confidence", std.Confidence, "error", std.ErrorReason)
		attempts = append(attempts, a.extractAggressive(ctx, zr))
	}

	return attempts
}

// extractStandard follows the EPUB container chain: META-INF/container.xml
// names the OPF package document, whose spine orders the manifest's content
// files.
func (a *Adapter) extractStandard(zr *zip.Reader) formats.Attempt {
	opfPath, err := locateOPF(zr)
	if err != nil {
		return formats.Failed(MethodStandard, err.Error())
	}

	opfData, err := readZipFile(zr, opfPath)
	if err != nil {
		return formats.Failed(MethodStandard, fmt.Sprintf("package document %s: %v", opfPath, err))
	}

	hrefs, err := spineOrder(opfData)
	if err != nil {
		return formats.Failed(MethodStandard, fmt.Sprintf("package document %s: %v", opfPath, err))
	}
	if len(hrefs) == 0 {
		return formats.Failed(MethodStandard, "spine lists no content documents")
	}

	baseDir := path.Dir(opfPath)
	var parts []string
	read := 0
	for _, href := range hrefs {
		name := href
		if baseDir != "." {
			name = path.Join(baseDir, href)
		}
		content, err := readZipFile(zr, name)
		if err != nil {
			a.logger.Debug("spine entry unreadable", "href", name, "error", err)
			continue
		}
		read++
		if text := htmlToText(bytes.NewReader(content)); text != "" {
			parts = append(parts, text)
		}
	}

	text := strings.TrimSpace(strings.Join(parts, "\n\n"))
	if text == "" {
		return formats.Failed(MethodStandard, fmt.Sprintf("no text in %d spine documents", len(hrefs)))
	}

	return formats.Attempt{
		Method:     MethodStandard,
		Text:       text,
		Confidence: confidence.TextConfidence(text),
		PartCount:  read,
	}
}

// locateOPF reads META-INF/container.xml and returns the rootfile path.
func locateOPF(zr *zip.Reader) (string, error) {
	data, err := readZipFile(zr, "META-INF/container.xml")
	if err != nil {
		return "", fmt.Errorf("container descriptor: %w", err)
	}

	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("container descriptor: %w", err)
	}

	node, err := xmlquery.Query(root, "//*[local-name()='rootfile']")
	if err != nil || node == nil {
		return "", fmt.Errorf("container descriptor names no rootfile")
	}
	opfPath := node.SelectAttr("full-path")
	if opfPath == "" {
		return "", fmt.Errorf("rootfile has no full-path attribute")
	}
	return opfPath, nil
}

// spineOrder resolves the OPF spine to manifest hrefs in reading order.
func spineOrder(opfData []byte) ([]string, error) {
	root, err := xmlquery.Parse(bytes.NewReader(opfData))
	if err != nil {
		return nil, err
	}

	items, err := xmlquery.QueryAll(root, "//*[local-name()='manifest']/*[local-name()='item']")
	if err != nil {
		return nil, err
	}
	hrefByID := make(map[string]string, len(items))
	for _, item := range items {
		id := item.SelectAttr("id")
		href := item.SelectAttr("href")
		if id != "" && href != "" {
			hrefByID[id] = href
		}
	}

	refs, err := xmlquery.QueryAll(root, "//*[local-name()='spine']/*[local-name()='itemref']")
	if err != nil {
		return nil, err
	}
	var hrefs []string
	for _, ref := range refs {
		if href, ok := hrefByID[ref.SelectAttr("idref")]; ok {
			hrefs = append(hrefs, href)
		}
	}
	return hrefs, nil
}

// scoredFile is one aggressive-pass candidate.
type scoredFile struct {
	index int
	name  string
	text  string
	score int
}

// extractAggressive scavenges every content-like file in the archive, scores
// each one, and keeps the best scorers in archive order. Confidence is scaled
// by the fraction of candidates that passed, so a mostly-junk archive reports
// a correspondingly shakier result.
func (a *Adapter) extractAggressive(ctx context.Context, zr *zip.Reader) formats.Attempt {
	var candidates []scoredFile
	considered := 0
	for i, f := range zr.File {
		if ctx.Err() != nil {
			break
		}
		if !contentLikeName(f.Name) {
			continue
		}
		considered++

		rc, err := f.Open()
		if err != nil {
			a.logger.Debug("aggressive pass skipping unreadable file", "name", f.Name, "error", err)
			continue
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		text := htmlToText(bytes.NewReader(content))
		if text == "" {
			continue
		}
		if score := scoreContentFile(f.Name, text); score >= fileScoreThreshold {
			candidates = append(candidates, scoredFile{index: i, name: f.Name, text: text, score: score})
		}
	}

	if len(candidates) == 0 {
		return formats.Failed(MethodAggressive, fmt.Sprintf("no content-bearing files among %d candidates", considered))
	}

	if len(candidates) > maxAggressiveFiles {
		sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
		candidates = candidates[:maxAggressiveFiles]
	}
	// Back to archive order, the closest thing to reading order we have.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].index < candidates[j].index })

	parts := make([]string, len(candidates))
	for i, c := range candidates {
		parts[i] = c.text
	}
	text := strings.TrimSpace(strings.Join(parts, "\n\n"))

	score := confidence.TextConfidence(text)
	if considered > 0 {
		score = score * len(candidates) / considered
	}

	return formats.Attempt{
		Method:     MethodAggressive,
		Text:       text,
		Confidence: score,
		PartCount:  len(candidates),
	}
}

// contentLikeName reports whether an archive member plausibly holds prose.
func contentLikeName(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".xhtml", ".html", ".htm", ".xml", ".txt":
		return true
	}
	return false
}

// Auxiliary files carry structure, not scripture.
var auxiliaryNames = []string{"toc", "nav", "cover", "copyright", "colophon", "titlepage"}

// verseReferenceRe matches "Book C:V" shapes in running text, with optional
// ordinal prefix and dot separators.
var verseReferenceRe = regexp.MustCompile(`(?:[1-3][ \t]+)?[A-Z][A-Za-z]+\.?(?:[ \t]+(?:of[ \t]+)?[A-Z][A-Za-z]+)?[ \t]+\d{1,3}[:.]\d{1,3}`)

// maxReferenceBonus caps how much verse-reference density can add to a file
// score.
const maxReferenceBonus = 20

// scoreContentFile rates how likely a file's text is body content rather than
// navigation or front matter.
func scoreContentFile(name, text string) int {
	score := 0
	if len(text) > 200 {
		score += 10
	}
	if len(text) > 1000 {
		score += 20
	}

	sentences := strings.Count(text, ". ") + strings.Count(text, ".\n")
	if sentences > 20 {
		sentences = 20
	}
	score += sentences

	biblical := confidence.BiblicalContentScore(text) / 2
	if biblical > 25 {
		biblical = 25
	}
	score += biblical

	refs := 2 * len(verseReferenceRe.FindAllStringIndex(text, -1))
	if refs > maxReferenceBonus {
		refs = maxReferenceBonus
	}
	score += refs

	base := strings.ToLower(path.Base(name))
	for _, aux := range auxiliaryNames {
		if strings.Contains(base, aux) {
			score -= 40
			break
		}
	}

	return score
}

// readZipFile reads one archive member by exact name.
func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("archive has no %s", name)
}
