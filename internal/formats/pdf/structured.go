package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/danteata/spiritammo/core/confidence"
	"github.com/danteata/spiritammo/internal/formats"
)

// yBucket quantizes text-run Y positions into 5-unit lines, tolerating
// sub-pixel jitter between runs of the same visual line.
const yBucket = 5.0

// defaultLeading is used for T* line advances when the stream never sets TL.
const defaultLeading = 12.0

// successBonusWeight and errorPenaltyWeight scale the page success rate and
// error rate into the structured attempt's confidence.
const (
	successBonusWeight = 30.0
	errorPenaltyWeight = 20.0
)

// extractStructured reads the PDF through pdfcpu's object model and rebuilds
// page text from positioned runs: lines top-to-bottom, runs left-to-right
// within a line.
func (a *Adapter) extractStructured(ctx context.Context, data []byte) formats.Attempt {
	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return formats.Failed(MethodStructured, fmt.Sprintf("pdfcpu read: %v", err))
	}

	total := pdfCtx.PageCount
	if total == 0 {
		return formats.Failed(MethodStructured, "document has no pages")
	}

	var (
		pages     []string
		processed int
		errPages  int
	)
	for pageNr := 1; pageNr <= total; pageNr++ {
		if ctx.Err() != nil {
			break
		}
		processed++
		pageText, pageErr := extractPage(pdfCtx, pageNr)
		if pageErr != nil {
			errPages++
			a.logger.Debug("structured extraction page error", "page", pageNr, "error", pageErr)
			continue
		}
		if pageText != "" {
			pages = append(pages, pageText)
		}
	}

	text := strings.TrimSpace(strings.Join(pages, "\n"))
	score := structuredConfidence(text, processed, errPages, total)

	attempt := formats.Attempt{
		Method:     MethodStructured,
		Text:       text,
		Confidence: score,
		PartCount:  total,
	}
	if text == "" {
		attempt.ErrorReason = fmt.Sprintf("no text recovered from %d pages (%d page errors)", total, errPages)
	}
	return attempt
}

// structuredConfidence scores a structured extraction: base text quality,
// plus a bonus for the fraction of pages walked, minus a penalty for the
// fraction whose content streams failed. Empty text scores zero outright.
func structuredConfidence(text string, processed, errPages, total int) int {
	if text == "" {
		return 0
	}

	score := confidence.TextConfidence(text)
	if processed > 0 && total > 0 {
		score += int(successBonusWeight * float64(processed) / float64(total))
		score -= int(errorPenaltyWeight * float64(errPages) / float64(total))
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// extractPage pulls one page's content stream and rebuilds its text. pdfcpu
// panics on some malformed streams; those count as page errors, not run
// failures.
func extractPage(pdfCtx *model.Context, pageNr int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("page content panicked: %v", r)
		}
	}()

	r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
	if err != nil {
		return "", fmt.Errorf("extract page content: %w", err)
	}
	if r == nil {
		return "", nil
	}
	stream, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read page content: %w", err)
	}

	runs := parseContentStream(stream)
	return assembleLines(runs), nil
}

// textRun is one positioned show-text result.
type textRun struct {
	x, y float64
	text string
}

// parseContentStream walks a page content stream tracking an approximate text
// position through Tm/Td/TD/TL/T* operators and collecting show-text output
// from Tj/TJ/' operators.
func parseContentStream(stream []byte) []textRun {
	var (
		runs    []textRun
		numbers []float64
		strs    []string
		curX    float64
		curY    float64
		leading = defaultLeading
	)

	emit := func() {
		if len(strs) == 0 {
			return
		}
		joined := strings.Join(strs, "")
		strs = strs[:0]
		if strings.TrimSpace(joined) == "" {
			return
		}
		runs = append(runs, textRun{x: curX, y: curY, text: joined})
	}

	tok := newTokenizer(stream)
	for {
		t, ok := tok.next()
		if !ok {
			break
		}
		switch t.kind {
		case tokNumber:
			numbers = append(numbers, t.num)
		case tokString:
			strs = append(strs, t.str)
		case tokOperator:
			switch t.op {
			case "BT":
				curX, curY = 0, 0
				numbers = numbers[:0]
				strs = strs[:0]
			case "Tm":
				if len(numbers) >= 6 {
					curX = numbers[len(numbers)-2]
					curY = numbers[len(numbers)-1]
				}
			case "Td":
				if len(numbers) >= 2 {
					curX += numbers[len(numbers)-2]
					curY += numbers[len(numbers)-1]
				}
			case "TD":
				if len(numbers) >= 2 {
					curX += numbers[len(numbers)-2]
					ty := numbers[len(numbers)-1]
					curY += ty
					if ty != 0 {
						leading = -ty
					}
				}
			case "TL":
				if len(numbers) >= 1 {
					leading = numbers[len(numbers)-1]
				}
			case "T*":
				curY -= leading
			case "'", "\"":
				curY -= leading
				emit()
			case "Tj", "TJ":
				emit()
			default:
				strs = strs[:0]
			}
			numbers = numbers[:0]
		}
	}

	return runs
}

// assembleLines groups runs into lines by quantized Y, orders lines
// top-to-bottom and runs left-to-right within a line.
func assembleLines(runs []textRun) string {
	if len(runs) == 0 {
		return ""
	}

	lines := make(map[int][]textRun)
	for _, r := range runs {
		bucket := int(math.Round(r.y/yBucket)) * int(yBucket)
		lines[bucket] = append(lines[bucket], r)
	}

	buckets := make([]int, 0, len(lines))
	for b := range lines {
		buckets = append(buckets, b)
	}
	// PDF user space grows upward: higher Y renders first.
	sort.Sort(sort.Reverse(sort.IntSlice(buckets)))

	var sb strings.Builder
	var last byte
	for i, b := range buckets {
		line := lines[b]
		sort.Slice(line, func(i, j int) bool { return line[i].x < line[j].x })
		if i > 0 {
			sb.WriteByte('\n')
			last = '\n'
		}
		for j, r := range line {
			if j > 0 && last != ' ' && !strings.HasPrefix(r.text, " ") {
				sb.WriteByte(' ')
			}
			sb.WriteString(r.text)
			if r.text != "" {
				last = r.text[len(r.text)-1]
			}
		}
	}
	return sb.String()
}
