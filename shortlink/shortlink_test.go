package shortlink

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quoteserver/quote"
)

type recordedClick struct {
	supplierID string
	name       string
	search     string
}

type fakeRecorder struct {
	clicks []recordedClick
	err    error
}

func (f *fakeRecorder) RecordClick(ctx context.Context, supplierID, name, email, phone, search string) error {
	f.clicks = append(f.clicks, recordedClick{supplierID: supplierID, name: name, search: search})
	return f.err
}

func testPayload() quote.LinkPayload {
	return quote.LinkPayload{
		SupplierID: "sup-1",
		LongURL:    "https://api.whatsapp.com/send?phone=5511&text=ola",
		Requester:  quote.Requester{Name: "Dra. Ana", Email: "ana@example.com", Phone: "5511988887777"},
		Search:     "1 unidade(s) de Botulift 100 UI",
	}
}

func TestIssueAndResolve(t *testing.T) {
	recorder := &fakeRecorder{}
	issuer := NewIssuer("https://orcamentos.example.com/", recorder, nil)

	link, err := issuer.Issue(testPayload())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "https://orcamentos.example.com/api/"), "link = %s", link)

	shortID := strings.TrimPrefix(link, "https://orcamentos.example.com/api/")
	assert.Len(t, shortID, shortIDLength)

	longURL, err := issuer.Resolve(context.Background(), shortID)
	require.NoError(t, err)
	assert.Equal(t, testPayload().LongURL, longURL)

	require.Len(t, recorder.clicks, 1)
	assert.Equal(t, "sup-1", recorder.clicks[0].supplierID)
	assert.Equal(t, "Dra. Ana", recorder.clicks[0].name)
	assert.Equal(t, "1 unidade(s) de Botulift 100 UI", recorder.clicks[0].search)
}

func TestIssueRequiresLongURL(t *testing.T) {
	issuer := NewIssuer("https://example.com", nil, nil)
	_, err := issuer.Issue(quote.LinkPayload{SupplierID: "sup-1"})
	assert.Error(t, err)
}

func TestIssueGeneratesDistinctIDs(t *testing.T) {
	issuer := NewIssuer("https://example.com", nil, nil)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		link, err := issuer.Issue(testPayload())
		require.NoError(t, err)
		assert.False(t, seen[link], "duplicate link %s", link)
		seen[link] = true
	}
}

func TestResolveUnknownID(t *testing.T) {
	issuer := NewIssuer("https://example.com", nil, nil)
	_, err := issuer.Resolve(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrLinkNotFound)
}

func TestResolveRecorderFailureStillRedirects(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("database down")}
	issuer := NewIssuer("https://example.com", recorder, nil)

	link, err := issuer.Issue(testPayload())
	require.NoError(t, err)

	shortID := strings.TrimPrefix(link, "https://example.com/api/")
	longURL, err := issuer.Resolve(context.Background(), shortID)
	require.NoError(t, err)
	assert.Equal(t, testPayload().LongURL, longURL)
}
