package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/business/web/mid"
	"github.com/ardanlabs/ledger/foundation/web"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Errors(t *testing.T) {
	type table struct {
		name    string
		handler web.Handler
		status  int
		fields  bool
	}

	tt := []table{
		{
			name: "ok",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return web.Respond(ctx, w, "ok", http.StatusOK)
			},
			status: http.StatusOK,
		},
		{
			name: "trusted",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return errs.NewTrusted(errors.New("block not found"), http.StatusNotFound)
			},
			status: http.StatusNotFound,
		},
		{
			name: "fields",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return validate.Check(struct {
					Sender string `json:"sender" validate:"required"`
				}{})
			},
			status: http.StatusBadRequest,
			fields: true,
		},
		{
			name: "untrusted",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return errors.New("disk on fire")
			},
			status: http.StatusInternalServerError,
		},
		{
			name: "panic",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				panic("boom")
			},
			status: http.StatusInternalServerError,
		},
	}

	t.Log("Given the need to shape errors coming out of handlers.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen the handler is %q.", testID, tst.name)
			{
				f := func(t *testing.T) {
					log := zap.NewNop().Sugar()
					app := web.NewApp(make(chan os.Signal, 1), mid.Logger(log), mid.Errors(log), mid.Metrics(), mid.Panics())
					app.Handle(http.MethodGet, "v1", "/test", tst.handler)

					r := httptest.NewRequest(http.MethodGet, "/v1/test", nil)
					w := httptest.NewRecorder()
					app.ServeHTTP(w, r)

					if w.Code != tst.status {
						t.Fatalf("\t%s\tTest %d:\tShould receive %d, got %d.", failed, testID, tst.status, w.Code)
					}
					t.Logf("\t%s\tTest %d:\tShould receive %d.", success, testID, tst.status)

					if tst.status == http.StatusOK {
						return
					}

					var er errs.Response
					if err := json.NewDecoder(w.Body).Decode(&er); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould decode the error response: %v", failed, testID, err)
					}

					if er.Error == "" || (len(er.Fields) > 0) != tst.fields {
						t.Fatalf("\t%s\tTest %d:\tShould get the expected error body, got %+v.", failed, testID, er)
					}
					t.Logf("\t%s\tTest %d:\tShould get the expected error body.", success, testID)

					if tst.status == http.StatusInternalServerError && er.Error != http.StatusText(http.StatusInternalServerError) {
						t.Fatalf("\t%s\tTest %d:\tShould hide the internal error, got %q.", failed, testID, er.Error)
					}
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_Cors(t *testing.T) {
	t.Log("Given the need to set CORS headers.")
	{
		t.Logf("\tTest 0:\tWhen the middleware wraps a route.")
		{
			app := web.NewApp(make(chan os.Signal, 1))
			h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return web.Respond(ctx, w, nil, http.StatusNoContent)
			}
			app.Handle(http.MethodGet, "", "/cors", h, mid.Cors("https://ledger.example"))

			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cors", nil))

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://ledger.example" {
				t.Fatalf("\t%s\tTest 0:\tShould set the origin, got %q.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould set the origin.", success)

			if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
				t.Fatalf("\t%s\tTest 0:\tShould only allow the node's methods, got %q.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould only allow the node's methods.", success)

			if got := w.Header().Get("Vary"); got != "Origin" {
				t.Fatalf("\t%s\tTest 0:\tShould vary by origin, got %q.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould vary by origin.", success)
		}

		t.Logf("\tTest 1:\tWhen any origin is allowed.")
		{
			app := web.NewApp(make(chan os.Signal, 1))
			h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return web.Respond(ctx, w, nil, http.StatusNoContent)
			}
			app.Handle(http.MethodGet, "", "/cors", h, mid.Cors("*"))

			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cors", nil))

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Fatalf("\t%s\tTest 1:\tShould allow any origin, got %q.", failed, got)
			}
			t.Logf("\t%s\tTest 1:\tShould allow any origin.", success)

			if got := w.Header().Get("Vary"); got != "" {
				t.Fatalf("\t%s\tTest 1:\tShould not vary by origin, got %q.", failed, got)
			}
			t.Logf("\t%s\tTest 1:\tShould not vary by origin.", success)
		}
	}
}
