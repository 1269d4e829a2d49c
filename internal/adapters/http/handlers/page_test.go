package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-quote/internal/adapters/render"
	"github.com/jsamuelsen/daily-quote/internal/app"
	"github.com/jsamuelsen/daily-quote/internal/domain"
	"github.com/jsamuelsen/daily-quote/internal/mocks"
	"github.com/jsamuelsen/daily-quote/internal/ports"
)

// testNow falls on day 1 of 2023, which selects index 1 of threeQuotes.
var testNow = time.Date(2023, time.January, 1, 9, 30, 0, 0, time.UTC)

func threeQuotes() domain.Catalog {
	return domain.Catalog{
		{Text: "A", Author: "X"},
		{Text: "B", Author: "Y"},
		{Text: "C", Author: "Z"},
	}
}

func newTestService(store ports.QuoteStore, renderer ports.PageRenderer) *app.DailyQuoteService {
	return app.NewDailyQuoteService(app.DailyQuoteServiceConfig{
		Store:    store,
		Renderer: renderer,
		Location: time.UTC,
		Clock:    func() time.Time { return testNow },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func servePage(h *PageHandler) *httptest.ResponseRecorder {
	engine := gin.New()
	h.RegisterPageRoutes(engine, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	return w
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}

	return nil
}

func TestPageHandler_Index(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	store.EXPECT().Load(mock.Anything).Return(threeQuotes(), nil)

	renderer := mocks.NewMockPageRenderer(t)
	renderer.EXPECT().RenderPage(mock.Anything, ports.PageData{
		Quote:  "“B”",
		Author: "Y",
		Date:   "2023-01-01",
	}).Return([]byte("<html>B</html>"), nil)

	w := servePage(NewPageHandler(newTestService(store, renderer), renderer))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<html>B</html>", w.Body.String())

	cookie := findCookie(w, app.CookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "%E2%80%9CB%E2%80%9D", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.False(t, cookie.HttpOnly, "page scripts read the quote cookie")
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.True(t, cookie.Expires.Equal(time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)))
}

func TestPageHandler_Index_Failures(t *testing.T) {
	tests := []struct {
		name        string
		setupStore  func(*mocks.MockQuoteStore)
		setupRender func(*mocks.MockPageRenderer)
	}{
		{
			name: "catalog unavailable",
			setupStore: func(m *mocks.MockQuoteStore) {
				m.EXPECT().Load(mock.Anything).Return(nil, domain.NewResourceUnavailableError("quotes.csv", "file not found"))
			},
		},
		{
			name: "malformed record",
			setupStore: func(m *mocks.MockQuoteStore) {
				m.EXPECT().Load(mock.Anything).Return(nil, domain.NewMalformedRecordError(3, "Author", "is missing"))
			},
		},
		{
			name: "empty catalog",
			setupStore: func(m *mocks.MockQuoteStore) {
				m.EXPECT().Load(mock.Anything).Return(domain.Catalog{}, nil)
			},
		},
		{
			name: "render failure",
			setupStore: func(m *mocks.MockQuoteStore) {
				m.EXPECT().Load(mock.Anything).Return(threeQuotes(), nil)
			},
			setupRender: func(m *mocks.MockPageRenderer) {
				m.EXPECT().RenderPage(mock.Anything, mock.Anything).Return(nil, errors.New("template: page: boom"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockQuoteStore(t)
			tt.setupStore(store)

			renderer := mocks.NewMockPageRenderer(t)
			if tt.setupRender != nil {
				tt.setupRender(renderer)
			}

			renderer.EXPECT().RenderError(mock.Anything, mock.MatchedBy(func(d ports.ErrorPageData) bool {
				return d.Status == http.StatusInternalServerError && d.Message == pageUnavailableMessage
			})).Return([]byte("<html>error</html>"), nil)

			w := servePage(NewPageHandler(newTestService(store, renderer), renderer))

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Equal(t, "<html>error</html>", w.Body.String())
			assert.Nil(t, findCookie(w, app.CookieName))
		})
	}
}

func TestPageHandler_Index_ErrorPageFallback(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	store.EXPECT().Load(mock.Anything).Return(nil, domain.NewResourceUnavailableError("quotes.csv", "file not found"))

	renderer := mocks.NewMockPageRenderer(t)
	renderer.EXPECT().RenderError(mock.Anything, mock.Anything).Return(nil, errors.New("template: error: boom"))

	w := servePage(NewPageHandler(newTestService(store, renderer), renderer))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", w.Body.String())
}

func TestPageHandler_Index_PanicRendersErrorPage(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	store.EXPECT().Load(mock.Anything).Return(threeQuotes(), nil)

	renderer := mocks.NewMockPageRenderer(t)
	renderer.EXPECT().RenderPage(mock.Anything, mock.Anything).RunAndReturn(
		func(context.Context, ports.PageData) ([]byte, error) {
			panic("template exploded")
		})
	renderer.EXPECT().RenderError(mock.Anything, mock.MatchedBy(func(d ports.ErrorPageData) bool {
		return d.Status == http.StatusInternalServerError
	})).Return([]byte("<html>error</html>"), nil)

	w := servePage(NewPageHandler(newTestService(store, renderer), renderer))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<html>error</html>", w.Body.String())
	assert.Nil(t, findCookie(w, app.CookieName))
}

func TestPageHandler_Index_WithRenderer(t *testing.T) {
	renderer, err := render.New(render.Config{Title: "Daily Motivation"})
	require.NoError(t, err)

	t.Run("page", func(t *testing.T) {
		store := mocks.NewMockQuoteStore(t)
		store.EXPECT().Load(mock.Anything).Return(threeQuotes(), nil)

		w := servePage(NewPageHandler(newTestService(store, renderer), renderer))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "“B”")
		assert.Contains(t, w.Body.String(), "Y")
		assert.Contains(t, w.Body.String(), `datetime="2023-01-01"`)
	})

	t.Run("error page", func(t *testing.T) {
		store := mocks.NewMockQuoteStore(t)
		store.EXPECT().Load(mock.Anything).Return(domain.Catalog{}, nil)

		w := servePage(NewPageHandler(newTestService(store, renderer), renderer))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "500 Internal Server Error")
		assert.NotContains(t, w.Body.String(), "catalog")
	})
}

func TestQuoteCookie(t *testing.T) {
	expires := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	c := QuoteCookie(app.QuoteCookie{Name: "quote", Value: "“Stay hungry; stay foolish”", Expires: expires})

	assert.Equal(t, "quote", c.Name)
	assert.Equal(t, "%E2%80%9CStay+hungry%3B+stay+foolish%E2%80%9D", c.Value)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, expires, c.Expires)
}
