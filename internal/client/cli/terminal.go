package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/patinapro/internal/client/device"
	"github.com/dmitrijs2005/patinapro/internal/client/models"
	"github.com/dmitrijs2005/patinapro/internal/filex"
)

// terminal implements device.UI on a line-oriented console. Navigation only
// records the current view; onNavigate lets the app load what the view
// shows.
type terminal struct {
	reader *bufio.Reader
	out    io.Writer

	onNavigate func(ctx context.Context, view device.View, params device.Params)

	mu     sync.Mutex
	view   device.View
	params device.Params
}

func newTerminal(reader *bufio.Reader, out io.Writer) *terminal {
	return &terminal{reader: reader, out: out, view: device.ViewLogin}
}

func (t *terminal) Notify(_ context.Context, title, message string) {
	fmt.Fprintf(t.out, "[%s] %s\n", title, message)
}

func (t *terminal) Navigate(ctx context.Context, view device.View, params device.Params) {
	t.mu.Lock()
	t.view = view
	t.params = params
	t.mu.Unlock()

	fmt.Fprintf(t.out, "-> %s\n", view)
	if t.onNavigate != nil {
		t.onNavigate(ctx, view, params)
	}
}

func (t *terminal) View() device.View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

// Confirm asks on the console. A typed-input prompt is cancelled by an
// empty line; a yes/no prompt is accepted only by an explicit yes.
func (t *terminal) Confirm(_ context.Context, p device.Prompt) (device.Answer, error) {
	fmt.Fprintf(t.out, "== %s ==\n%s\n", p.Title, p.Message)

	if p.Input {
		text, err := GetSimpleText(t.reader, fmt.Sprintf("%s (Enter vacío: %s)", p.Placeholder, p.Cancel), t.out)
		if err != nil {
			return device.Answer{}, err
		}
		if text == "" {
			return device.Answer{}, nil
		}
		return device.Answer{Confirmed: true, Text: text}, nil
	}

	text, err := GetSimpleText(t.reader, p.Accept+" [s/N]", t.out)
	if err != nil {
		return device.Answer{}, err
	}
	switch strings.ToLower(text) {
	case "s", "si", "sí", "y", "yes":
		return device.Answer{Confirmed: true}, nil
	}
	return device.Answer{}, nil
}

var errNoPhotoFile = errors.New("no photo file given")

// fileCamera "captures" the image file named by the photo command.
type fileCamera struct {
	mu   sync.Mutex
	path string
}

func (c *fileCamera) use(path string) {
	c.mu.Lock()
	c.path = path
	c.mu.Unlock()
}

func (c *fileCamera) CapturePhoto(_ context.Context) ([]byte, error) {
	c.mu.Lock()
	path := c.path
	c.mu.Unlock()

	if path == "" {
		return nil, errNoPhotoFile
	}
	return filex.ReadFile(path)
}

// fixedLocator reports the configured position and always grants access.
type fixedLocator struct {
	loc models.Location
}

func (l fixedLocator) RequestPermission(ctx context.Context) (bool, error) {
	return ctx.Err() == nil, ctx.Err()
}

func (l fixedLocator) CurrentLocation(ctx context.Context) (models.Location, error) {
	if err := ctx.Err(); err != nil {
		return models.Location{}, err
	}
	return l.loc, nil
}

// textMap prints map updates instead of drawing them.
type textMap struct {
	out io.Writer
}

func (m textMap) Render(_ context.Context, center models.Coordinates, zoom int, routes []models.Route) error {
	fmt.Fprintf(m.out, "Mapa: centro %.4f, %.4f (zoom %d)\n", center.Latitude, center.Longitude, zoom)
	for _, r := range routes {
		fmt.Fprintf(m.out, "  [%d] %s\n      %s %s | %s (%s) | %s\n      %s (%.4f, %.4f)\n",
			r.ID, r.Name, r.Weekday, r.Time, r.SkillLevel, r.SkillLevel.Color(), r.Neighborhood,
			r.MeetingPoint, r.Coordinates.Latitude, r.Coordinates.Longitude)
	}
	return nil
}

func (m textMap) Focus(_ context.Context, center models.Coordinates, zoom int) error {
	fmt.Fprintf(m.out, "Mapa: centrado en %.4f, %.4f (zoom %d)\n", center.Latitude, center.Longitude, zoom)
	return nil
}

func (m textMap) MarkUser(_ context.Context, at models.Coordinates) error {
	fmt.Fprintf(m.out, "Mapa: tu ubicación %.4f, %.4f\n", at.Latitude, at.Longitude)
	return nil
}
