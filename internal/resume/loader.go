package resume

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/cv-agent/internal/fetch"
	"github.com/jonathan/cv-agent/internal/types"
)

// LoadOptions selects the CV document source and how to obtain it.
// Exactly one of Path and URL should be set.
type LoadOptions struct {
	Path       string
	URL        string
	UseBrowser bool // render the page in a headless browser when plain fetching yields too little text
}

// Load obtains the CV document from its configured source, parses it, and
// returns the record with load metadata. Any failure is returned to the
// caller; deciding whether to fall back to an empty record is the
// initialization lifecycle's concern, not the loader's.
func Load(ctx context.Context, opts LoadOptions, logger *zap.Logger) (*types.CVRecord, *Metadata, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var content, source string
	switch {
	case opts.Path != "":
		source = opts.Path
		data, err := os.ReadFile(opts.Path)
		if err != nil {
			return nil, nil, &SourceError{Source: opts.Path, Message: "failed to read resume file", Cause: err}
		}
		content = string(data)
	case opts.URL != "":
		source = opts.URL
		text, err := fetchDocument(ctx, opts, logger)
		if err != nil {
			return nil, nil, err
		}
		content = text
	default:
		return nil, nil, &SourceError{Source: "(none)", Message: "no resume source configured"}
	}

	// File sources may also hold HTML exports; reduce those to text first
	if looksLikeHTML(content) {
		text, err := fetch.ExtractMainText(content, fetch.ResumePageSelectors())
		if err != nil {
			return nil, nil, &ParseError{Message: "failed to extract text from HTML", Cause: err}
		}
		content = text
	}

	record, err := Parse(content)
	if err != nil {
		return nil, nil, err
	}

	meta := NewMetadata(record.RawText, source, record)
	logger.Info("resume loaded",
		zap.String("source", source),
		zap.Int("experience", meta.Sections.Experience),
		zap.Int("education", meta.Sections.Education),
		zap.Int("skills", meta.Sections.Skills),
	)

	return record, meta, nil
}

// fetchDocument retrieves a hosted CV page, falling back to headless
// browser rendering when the static HTML carries too little text to be a
// real document (JS-rendered portfolio sites).
func fetchDocument(ctx context.Context, opts LoadOptions, logger *zap.Logger) (string, error) {
	result, err := fetch.URL(ctx, opts.URL, nil)
	if err != nil {
		return "", &SourceError{Source: opts.URL, Message: "failed to fetch resume", Cause: err}
	}

	if !strings.Contains(result.ContentType, "html") && !looksLikeHTML(result.HTML) {
		return result.HTML, nil
	}

	// Known hosts (Google Docs, GitHub Pages, Notion) get targeted
	// selectors; everything else falls back to the generic resume set.
	platform := fetch.DetectPlatform(opts.URL)
	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)
	if platform != fetch.PlatformUnknown {
		logger.Debug("detected hosting platform",
			zap.String("url", opts.URL),
			zap.String("platform", string(platform)),
		)
	}

	text, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", &ParseError{Message: "failed to extract text from HTML", Cause: err}
	}

	if opts.UseBrowser && fetch.ShouldUseBrowser(text) {
		logger.Info("static fetch too thin, rendering with browser", zap.String("url", opts.URL))
		html, browserErr := fetch.BrowserSimple(ctx, opts.URL, logger)
		if browserErr != nil {
			return "", &SourceError{Source: opts.URL, Message: "browser rendering failed", Cause: browserErr}
		}
		text, err = fetch.ExtractMainText(html, contentSelectors, noiseSelectors...)
		if err != nil {
			return "", &ParseError{Message: "failed to extract text from rendered HTML", Cause: err}
		}
	}

	return text, nil
}

// looksLikeHTML sniffs document content for HTML markers.
func looksLikeHTML(content string) bool {
	head := strings.ToLower(content)
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.Contains(head, "<html") ||
		strings.Contains(head, "<!doctype html") ||
		strings.Contains(head, "<body") ||
		strings.Contains(head, "<div")
}
