package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/matcha/internal/adapters/http/swagger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegister(t *testing.T) {
	Convey("Given a mux with the docs routes registered", t, func() {
		mux := http.NewServeMux()
		swagger.Register(context.Background(), mux)

		Convey("When requesting the docs page", func() {
			req := httptest.NewRequest(http.MethodGet, "/api-docs", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should serve the ReDoc HTML", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldEqual, "text/html; charset=utf-8")
				So(rec.Body.String(), ShouldContainSubstring, "redoc")
				So(rec.Body.String(), ShouldContainSubstring, "/openapi.yaml")
			})
		})

		Convey("When requesting the OpenAPI spec", func() {
			req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should serve the YAML document", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldEqual, "application/yaml; charset=utf-8")

				body := rec.Body.String()
				So(strings.HasPrefix(body, "openapi:"), ShouldBeTrue)
				So(body, ShouldContainSubstring, "/evaluate")
				So(body, ShouldContainSubstring, "/matches/{seeker_id}")
			})
		})

		Convey("When registering with a nil mux", func() {
			So(func() { swagger.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}
