package novelconv

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-novelconv/internal/fileutil"
	"github.com/alnah/go-novelconv/internal/process"
)

// Paper is a PDF page size in inches.
type Paper struct {
	Name   string
	Width  float64
	Height float64
}

// Paper sizes common for novels, plus letter.
var papers = map[string]Paper{
	"a4":     {Name: "a4", Width: 8.27, Height: 11.69},
	"a5":     {Name: "a5", Width: 5.83, Height: 8.27},
	"b6":     {Name: "b6", Width: 5.04, Height: 7.17},
	"letter": {Name: "letter", Width: 8.5, Height: 11},
}

// DefaultPaper is used when no paper size is given.
const DefaultPaper = "a5"

// defaultPDFTimeout bounds page loading when the context has no deadline.
const defaultPDFTimeout = 30 * time.Second

// marginInches applies to every side of the page.
const marginInches = 0.6

// PaperSize looks up a paper size by case-insensitive name.
func PaperSize(name string) (Paper, error) {
	if name == "" {
		name = DefaultPaper
	}
	p, ok := papers[strings.ToLower(name)]
	if !ok {
		return Paper{}, fmt.Errorf("%w: %q (must be a4, a5, b6 or letter)", ErrInvalidPaper, name)
	}
	return p, nil
}

// pdfRenderer renders an HTML file to PDF. Split out so tests can run without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, paper Paper) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ pdfRenderer = (*rodRenderer)(nil)

// PDFExporter prints HTML documents to PDF with headless Chrome.
// The browser starts on first use; call Close to release it.
type PDFExporter struct {
	paper    Paper
	renderer pdfRenderer
}

// PDFOption configures a PDFExporter.
type PDFOption func(*pdfExporterConfig)

type pdfExporterConfig struct {
	paper    string
	timeout  time.Duration
	renderer pdfRenderer
}

// WithPaper selects the paper size by name.
func WithPaper(name string) PDFOption {
	return func(c *pdfExporterConfig) {
		c.paper = name
	}
}

// WithPDFTimeout sets the page load timeout used when the context has no deadline.
func WithPDFTimeout(d time.Duration) PDFOption {
	return func(c *pdfExporterConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewPDFExporter creates a PDFExporter. It fails only on an unknown paper size.
func NewPDFExporter(opts ...PDFOption) (*PDFExporter, error) {
	cfg := pdfExporterConfig{timeout: defaultPDFTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	paper, err := PaperSize(cfg.paper)
	if err != nil {
		return nil, err
	}

	r := cfg.renderer
	if r == nil {
		r = newRodRenderer(cfg.timeout)
	}
	return &PDFExporter{paper: paper, renderer: r}, nil
}

// Export renders a complete HTML document to PDF bytes.
func (e *PDFExporter) Export(ctx context.Context, htmlDoc string) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlDoc, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return e.renderer.RenderFromFile(ctx, tmpPath, e.paper)
}

// Paper returns the configured paper size.
func (e *PDFExporter) Paper() Paper {
	return e.paper
}

// Close releases the browser.
func (e *PDFExporter) Close() error {
	if e.renderer != nil {
		return e.renderer.Close()
	}
	return nil
}

// rodRenderer implements pdfRenderer using go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodRenderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = b
	return nil
}

// RenderFromFile opens a local HTML file and prints it to PDF.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, paper Paper) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPDFOptions(paper))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return buf, nil
}

// Close shuts the browser down and kills its process group.
func (r *rodRenderer) Close() error {
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil

	if r.launcher != nil {
		process.KillProcessGroup(r.launcher.PID())
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// buildPDFOptions maps a paper size to Chrome print options.
func buildPDFOptions(p Paper) *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(p.Width),
		PaperHeight:     floatPtr(p.Height),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
