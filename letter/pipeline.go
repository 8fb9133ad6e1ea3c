package letter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/models"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/utils"
)

// PipelineState tracks an export job through its lifecycle
type PipelineState int

const (
	StateIdle PipelineState = iota
	StateResolvingAssets
	StateRendered
	StatePrinting
	StateClosed
	StateFailed
)

// String returns the state name for logging
func (s PipelineState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateResolvingAssets:
		return "RESOLVING_ASSETS"
	case StateRendered:
		return "RENDERED"
	case StatePrinting:
		return "PRINTING"
	case StateClosed:
		return "CLOSED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Surface is the rendering surface collaborator: a window-like target the
// assembled document is written into. The production surface is the member's
// browser window; tests use fakes.
type Surface interface {
	// Open creates the surface. Failure is the popup-blocked condition: the
	// pipeline fails without retry and the user is told to allow the popup.
	Open() error
	// WriteDocument writes the assembled document into the surface
	WriteDocument(doc string) error
	// AwaitLoad blocks until the surface has finished loading the document
	AwaitLoad(ctx context.Context) error
	// Print invokes the platform print/save action. The pipeline's
	// responsibility ends here: it cannot tell a saved PDF from a dismissed
	// print dialog.
	Print() error
	// Close disposes the surface
	Close() error
}

// Job is one export run
type Job struct {
	ID       string
	State    PipelineState
	Document string
}

// Pipeline drives the export state machine:
// IDLE -> RESOLVING_ASSETS -> RENDERED -> PRINTING -> CLOSED | FAILED.
type Pipeline struct {
	resolver *Resolver
	tenure   string
	// settle is the pause after load before printing, so embedded images and
	// fonts finish painting
	settle time.Duration
}

// NewPipeline creates an export pipeline. The caller supplies the settle
// delay already clamped to the acceptable minimum.
func NewPipeline(resolver *Resolver, tenure string, settle time.Duration) *Pipeline {
	return &Pipeline{resolver: resolver, tenure: tenure, settle: settle}
}

// Assemble resolves the artwork and renders the letter without driving a
// surface. Used for the inline preview, where the document is embedded into
// the page rather than printed.
func (p *Pipeline) Assemble(ctx context.Context, member models.Member, date time.Time) (*Job, error) {
	job := &Job{ID: uuid.New().String(), State: StateIdle}
	log := utils.Log.WithField("job", job.ID)

	job.State = StateResolvingAssets
	images := p.resolver.Resolve(ctx)

	doc, err := Render(member, date, p.tenure, images)
	if err != nil {
		job.State = StateFailed
		return job, utils.InternalServerError("Failed to render letter", err)
	}
	job.State = StateRendered
	job.Document = doc

	log.Debug("Letter assembled for %s (%d bytes)", member.RegNo, len(doc))
	return job, nil
}

// Export runs the full machine against a surface: assemble the document,
// write it, wait for load plus the settle delay, print, close. Asset
// failures were already recovered during assembly; the only terminal failure
// past that point is the surface itself.
func (p *Pipeline) Export(ctx context.Context, member models.Member, date time.Time, surface Surface) (*Job, error) {
	job, err := p.Assemble(ctx, member, date)
	if err != nil {
		return job, err
	}
	log := utils.Log.WithField("job", job.ID)

	if err := surface.Open(); err != nil {
		job.State = StateFailed
		log.Warn("Export surface could not be opened: %v", err)
		return job, utils.ForbiddenError("Please allow popups to generate the letter", err)
	}

	if err := surface.WriteDocument(job.Document); err != nil {
		job.State = StateFailed
		surface.Close()
		return job, utils.InternalServerError("Failed to write letter to surface", err)
	}

	if err := surface.AwaitLoad(ctx); err != nil {
		job.State = StateFailed
		surface.Close()
		return job, utils.InternalServerError("Surface never finished loading", err)
	}

	job.State = StatePrinting
	select {
	case <-time.After(p.settle):
	case <-ctx.Done():
		job.State = StateFailed
		surface.Close()
		return job, ctx.Err()
	}

	if err := surface.Print(); err != nil {
		job.State = StateFailed
		surface.Close()
		return job, utils.InternalServerError("Print action failed", err)
	}

	if err := surface.Close(); err != nil {
		log.Warn("Export surface close failed: %v", err)
	}
	job.State = StateClosed

	log.Info("Letter exported for %s", member.RegNo)
	return job, nil
}

// printScript is appended to downloaded documents so the member's browser
// performs the load-settle-print-close sequence itself
const printScript = `<script>
    window.onload = function () {
        setTimeout(function () {
            window.focus();
            window.print();
            window.close();
        }, %d);
    };
</script>
`

// InjectPrintScript returns the document with the auto-print script inserted
// before the closing body tag. The delay is the settle pause in
// milliseconds.
func InjectPrintScript(doc string, settle time.Duration) string {
	script := fmt.Sprintf(printScript, settle.Milliseconds())
	if idx := strings.LastIndex(doc, "</body>"); idx >= 0 {
		return doc[:idx] + script + doc[idx:]
	}
	return doc + script
}
