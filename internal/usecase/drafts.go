package usecase

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/task-tracker/internal/domain"
)

// frontmatterKey matches the first line of a frontmatter block.
var frontmatterKey = regexp.MustCompile(`^[a-z_]+:`)

// draftFrontmatter is the YAML header of one entry.
type draftFrontmatter struct {
	Title    string `yaml:"title"`
	Kind     string `yaml:"kind"`
	Status   string `yaml:"status"`
	Start    string `yaml:"start"`
	Duration string `yaml:"duration"`
	Epic     int    `yaml:"epic"`
	EpicID   int    `yaml:"epic_id"`
}

// draftBlock is one entry split out of a file.
type draftBlock struct {
	frontmatter string
	body        string
	line        int
}

// ParseDrafts parses a markdown file holding one or more entries.
// Each entry is a YAML frontmatter block followed by its description:
//
//	---
//	title: Release 2.0
//	kind: epic
//	---
//	Everything for the 2.0 release.
//
//	---
//	title: Build artifacts
//	epic: 1
//	start: 2025-03-10T10:00
//	duration: 2h
//	---
//
// kind defaults to task, or to subtask when epic or epic_id is set.
// epic is the position of an epic earlier in the file; epic_id names an
// existing epic.
func ParseDrafts(content string) ([]domain.Draft, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyFile
	}

	blocks, err := splitDraftBlocks(content)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, domain.ErrNoEntriesInFile
	}

	drafts := make([]domain.Draft, 0, len(blocks))
	for i, block := range blocks {
		draft, err := parseDraftBlock(block)
		if err == nil {
			err = draft.Validate(i+1, drafts)
		}
		if err != nil {
			return nil, fmt.Errorf("entry %d (line %d): %w", i+1, block.line, err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// splitDraftBlocks splits content at each --- that opens a frontmatter block.
// A --- inside a description is kept unless the next line looks like a key.
func splitDraftBlocks(content string) ([]draftBlock, error) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}

	var blocks []draftBlock
	for i < len(lines) {
		if !isSeparator(lines[i]) {
			return nil, fmt.Errorf("%w: line %d: expected ---", domain.ErrInvalidDraft, i+1)
		}

		end := i + 1
		for end < len(lines) && !isSeparator(lines[end]) {
			end++
		}
		if end == len(lines) {
			return nil, fmt.Errorf("%w: line %d: unterminated frontmatter", domain.ErrInvalidDraft, i+1)
		}

		next := end + 1
		for next < len(lines) && !isBlockStart(lines, next) {
			next++
		}

		blocks = append(blocks, draftBlock{
			frontmatter: strings.Join(lines[i+1:end], "\n"),
			body:        strings.TrimSpace(strings.Join(lines[end+1:next], "\n")),
			line:        i + 1,
		})
		i = next
	}
	return blocks, nil
}

func isSeparator(line string) bool {
	return strings.TrimRight(line, " \t") == "---"
}

func isBlockStart(lines []string, i int) bool {
	return isSeparator(lines[i]) && i+1 < len(lines) && frontmatterKey.MatchString(lines[i+1])
}

// parseDraftBlock decodes the frontmatter of a block into a draft.
func parseDraftBlock(block draftBlock) (domain.Draft, error) {
	var fm draftFrontmatter
	dec := yaml.NewDecoder(bytes.NewReader([]byte(block.frontmatter)))
	dec.KnownFields(true)
	if err := dec.Decode(&fm); err != nil && !errors.Is(err, io.EOF) {
		return domain.Draft{}, fmt.Errorf("%w: %w", domain.ErrInvalidDraft, err)
	}

	draft := domain.Draft{
		Title:       strings.TrimSpace(fm.Title),
		Description: block.body,
		EpicIndex:   fm.Epic,
		EpicID:      fm.EpicID,
		Line:        block.line,
	}

	switch {
	case fm.Kind != "":
		kind, err := domain.ParseKind(fm.Kind)
		if err != nil {
			return domain.Draft{}, err
		}
		draft.Kind = kind
	case fm.Epic != 0 || fm.EpicID != 0:
		draft.Kind = domain.KindSubtask
	default:
		draft.Kind = domain.KindTask
	}

	status, err := domain.ParseStatus(fm.Status)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("%w: %q", err, fm.Status)
	}
	draft.Status = status

	if fm.Start != "" {
		start, err := domain.ParseLocalTime(fm.Start)
		if err != nil {
			return domain.Draft{}, fmt.Errorf("%w: %w", domain.ErrInvalidDraft, err)
		}
		draft.Start = &start
	}
	if fm.Duration != "" {
		d, err := time.ParseDuration(fm.Duration)
		if err != nil {
			return domain.Draft{}, fmt.Errorf("%w: duration: %w", domain.ErrInvalidDraft, err)
		}
		draft.Duration = &d
	}
	return draft, nil
}
