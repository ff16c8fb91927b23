package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/patinapro/internal/client/client"
	"github.com/dmitrijs2005/patinapro/internal/client/device"
	"github.com/dmitrijs2005/patinapro/internal/client/models"
)

// ---- database ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "patinapro.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newSession(t *testing.T) SessionState {
	t.Helper()
	return NewSessionState(setupDB(t))
}

// ---- fake client ----

// fakeClient implements client.Client. When UpdateBlock is set, UpdateUser
// signals UpdateEntered and waits for UpdateBlock to be closed.
type fakeClient struct {
	mu sync.Mutex

	LoginRet *models.LoginResult
	LoginErr error

	CreateRet *models.CreatedUser
	CreateErr error

	GetRet *models.UserProfile
	GetErr error

	UpdateErr     error
	UpdateBlock   chan struct{}
	UpdateEntered chan struct{}

	DeleteErr error

	ListRet []models.UserProfile
	ListErr error

	LoginCalls  int
	CreateCalls int
	GetCalls    int
	UpdateCalls int
	DeleteCalls int

	LastLogin      models.Credentials
	LastCreate     models.NewUser
	LastGetUser    string
	LastUpdateUser string
	LastUpdate     models.ProfileUpdate
	LastDeleteUser string
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls++
	f.LastLogin = creds
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	if f.LoginRet != nil {
		return f.LoginRet, nil
	}
	return &models.LoginResult{Message: "Login exitoso", Username: creds.Username}, nil
}

func (f *fakeClient) CreateUser(ctx context.Context, user models.NewUser) (*models.CreatedUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.LastCreate = user
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	if f.CreateRet != nil {
		return f.CreateRet, nil
	}
	return &models.CreatedUser{ID: 1, Username: user.Username, Email: user.Email}, nil
}

func (f *fakeClient) GetUser(ctx context.Context, username string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetCalls++
	f.LastGetUser = username
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	if f.GetRet != nil {
		p := *f.GetRet
		return &p, nil
	}
	return &models.UserProfile{Username: username}, nil
}

func (f *fakeClient) UpdateUser(ctx context.Context, username string, update models.ProfileUpdate) (*models.MessageResult, error) {
	f.mu.Lock()
	f.UpdateCalls++
	f.LastUpdateUser = username
	f.LastUpdate = update
	block, entered, err := f.UpdateBlock, f.UpdateEntered, f.UpdateErr
	f.mu.Unlock()

	if block != nil {
		if entered != nil {
			entered <- struct{}{}
		}
		<-block
	}
	if err != nil {
		return nil, err
	}
	return &models.MessageResult{Message: "Usuario actualizado"}, nil
}

func (f *fakeClient) DeleteUser(ctx context.Context, username string) (*models.MessageResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	f.LastDeleteUser = username
	if f.DeleteErr != nil {
		return nil, f.DeleteErr
	}
	return &models.MessageResult{Message: "Usuario eliminado"}, nil
}

func (f *fakeClient) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	return f.ListRet, f.ListErr
}

func (f *fakeClient) updateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.UpdateCalls
}

func notFound() error {
	return &client.APIError{Side: client.SideServer, StatusCode: 404, Detail: "Usuario no encontrado", Err: client.ErrNotFound}
}

func serverError(code int, detail string) error {
	return &client.APIError{Side: client.SideServer, StatusCode: code, Detail: detail, Err: client.ErrServer}
}

// ---- fake UI ----

type note struct {
	Title   string
	Message string
}

type navigation struct {
	View   device.View
	Params device.Params
}

type fakeUI struct {
	mu sync.Mutex

	Notes   []note
	Navs    []navigation
	Prompts []device.Prompt

	Answers    []device.Answer
	ConfirmErr error
}

func (u *fakeUI) Notify(_ context.Context, title, message string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Notes = append(u.Notes, note{Title: title, Message: message})
}

func (u *fakeUI) Navigate(_ context.Context, view device.View, params device.Params) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Navs = append(u.Navs, navigation{View: view, Params: params})
}

// Confirm replays queued answers; with none left it cancels.
func (u *fakeUI) Confirm(_ context.Context, p device.Prompt) (device.Answer, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Prompts = append(u.Prompts, p)
	if u.ConfirmErr != nil {
		return device.Answer{}, u.ConfirmErr
	}
	if len(u.Answers) == 0 {
		return device.Answer{}, nil
	}
	a := u.Answers[0]
	u.Answers = u.Answers[1:]
	return a, nil
}

func (u *fakeUI) notes() []note {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]note(nil), u.Notes...)
}

func (u *fakeUI) lastNote() note {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.Notes) == 0 {
		return note{}
	}
	return u.Notes[len(u.Notes)-1]
}

func (u *fakeUI) lastNav() navigation {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.Navs) == 0 {
		return navigation{}
	}
	return u.Navs[len(u.Navs)-1]
}

// ---- fake devices ----

type fakeCamera struct {
	Data []byte
	Err  error
}

func (c *fakeCamera) CapturePhoto(context.Context) ([]byte, error) {
	return c.Data, c.Err
}

type fakeLocator struct {
	Granted     bool
	PermErr     error
	Location    models.Location
	LocationErr error

	LocationCalls int
}

func (l *fakeLocator) RequestPermission(context.Context) (bool, error) {
	return l.Granted, l.PermErr
}

func (l *fakeLocator) CurrentLocation(context.Context) (models.Location, error) {
	l.LocationCalls++
	return l.Location, l.LocationErr
}

type focus struct {
	Center models.Coordinates
	Zoom   int
}

type fakeRenderer struct {
	RenderCenter models.Coordinates
	RenderZoom   int
	RenderRoutes []models.Route
	Focuses      []focus
	UserMarks    []models.Coordinates
	Err          error
}

func (r *fakeRenderer) Render(_ context.Context, center models.Coordinates, zoom int, routes []models.Route) error {
	r.RenderCenter, r.RenderZoom, r.RenderRoutes = center, zoom, routes
	return r.Err
}

func (r *fakeRenderer) Focus(_ context.Context, center models.Coordinates, zoom int) error {
	r.Focuses = append(r.Focuses, focus{Center: center, Zoom: zoom})
	return r.Err
}

func (r *fakeRenderer) MarkUser(_ context.Context, at models.Coordinates) error {
	r.UserMarks = append(r.UserMarks, at)
	return r.Err
}
