package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	notes []string
	views []View
}

func (r *recorder) Notify(_ context.Context, title, message string) {
	r.notes = append(r.notes, title+": "+message)
}

func (r *recorder) Navigate(_ context.Context, view View, _ Params) {
	r.views = append(r.views, view)
}

type yes struct{}

func (yes) Confirm(context.Context, Prompt) (Answer, error) {
	return Answer{Confirmed: true, Text: "ok"}, nil
}

func TestCombine(t *testing.T) {
	rec := &recorder{}
	ui := Combine(rec, rec, yes{})
	ctx := context.Background()

	ui.Notify(ctx, "Éxito", "hecho")
	ui.Navigate(ctx, ViewMenu, nil)
	ans, err := ui.Confirm(ctx, Prompt{Title: "¿Seguro?"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Éxito: hecho"}, rec.notes)
	assert.Equal(t, []View{ViewMenu}, rec.views)
	assert.True(t, ans.Confirmed)
}
