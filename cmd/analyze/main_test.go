package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

const feed = `{"results": [
	{"number": 5, "time": "t0", "lightningNumbers": [{"number": 5, "multiplier": 50}]},
	{"number": "5", "time": "t1"},
	{"number": 12, "time": "t2"},
	{"number": "oops", "time": "t3"},
	{"number": 0, "time": "t4"}
]}`

func decodeReport(buf *bytes.Buffer) map[string]any {
	var out map[string]any
	convey.So(json.Unmarshal(buf.Bytes(), &out), convey.ShouldBeNil)
	return out
}

func TestRun(t *testing.T) {
	convey.Convey("Given the analyze command", t, func() {
		ctx := context.Background()
		var stdout, stderr bytes.Buffer

		convey.Convey("When reading records from a file", func() {
			path := filepath.Join(t.TempDir(), "feed.json")
			convey.So(os.WriteFile(path, []byte(feed), 0o600), convey.ShouldBeNil)

			err := run(ctx, []string{"-file", path, "-strategy", "hot", "-k", "2"}, &stdout, &stderr)

			convey.Convey("Then the report should be printed as JSON", func() {
				convey.So(err, convey.ShouldBeNil)
				out := decodeReport(&stdout)
				convey.So(out["strategy"], convey.ShouldEqual, "hot")
				stats := out["stats"].(map[string]any)
				convey.So(stats["total_spins"], convey.ShouldEqual, 4.0)
				convey.So(stats["lightning_hits"], convey.ShouldEqual, 1.0)
				picks := out["suggestions"].(map[string]any)["picks"].([]any)
				convey.So(picks, convey.ShouldResemble, []any{5.0, 0.0})
			})

			convey.Convey("And stdout should be indented", func() {
				convey.So(stdout.String(), convey.ShouldContainSubstring, "\n  \"id\"")
			})
		})

		convey.Convey("When fetching records over HTTP", func() {
			var gotQuery, gotAuth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query().Get("limit")
				gotAuth = r.Header.Get("Authorization")
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(feed))
			}))
			defer srv.Close()

			err := run(ctx, []string{
				"-url", srv.URL,
				"-headers", `{"Authorization": "Bearer t"}`,
				"-params", `{"limit": 500}`,
			}, &stdout, &stderr)

			convey.Convey("Then headers and params should be forwarded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(gotQuery, convey.ShouldEqual, "500")
				convey.So(gotAuth, convey.ShouldEqual, "Bearer t")
				convey.So(decodeReport(&stdout)["strategy"], convey.ShouldEqual, "combo")
			})
		})

		convey.Convey("When the upstream fails", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer srv.Close()

			err := run(ctx, []string{"-url", srv.URL}, &stdout, &stderr)

			convey.Convey("Then the error should be returned and nothing printed", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(stdout.Len(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When no input is given", func() {
			err := run(ctx, nil, &stdout, &stderr)

			convey.Convey("Then it should ask for -url or -file", func() {
				convey.So(errors.Is(err, errNoInput), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the strategy is unknown", func() {
			err := run(ctx, []string{"-file", "x.json", "-strategy", "martingale"}, &stdout, &stderr)

			convey.Convey("Then flag validation should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the headers are not a JSON object", func() {
			err := run(ctx, []string{"-url", "http://127.0.0.1:1", "-headers", "[1]"}, &stdout, &stderr)

			convey.Convey("Then parsing should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestStringMap(t *testing.T) {
	convey.Convey("Given JSON objects of request values", t, func() {
		convey.Convey("Then scalars should be rendered as strings", func() {
			m, err := stringMap(`{"limit": 500, "live": true, "table": "xxx", "skip": null}`)
			convey.So(err, convey.ShouldBeNil)
			convey.So(m, convey.ShouldResemble, map[string]string{"limit": "500", "live": "true", "table": "xxx"})
		})

		convey.Convey("Then nested values should be rejected", func() {
			_, err := stringMap(`{"filter": {"a": 1}}`)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("Then an empty string should yield no values", func() {
			m, err := stringMap("")
			convey.So(err, convey.ShouldBeNil)
			convey.So(m, convey.ShouldBeNil)
		})
	})
}
