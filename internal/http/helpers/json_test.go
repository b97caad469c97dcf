package helpers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
)

func decodeErrEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("body no es JSON: %v", err)
	}
	return body
}

func TestReadJSONWrongContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"a":1}`))
	r.Header.Set("Content-Type", "text/plain")

	var v map[string]any
	if ReadJSON(rec, r, &v) {
		t.Fatal("ReadJSON acepto content-type incorrecto")
	}
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeErrEnvelope(t, rec)
	if body["success"] != false {
		t.Fatalf("success = %v, want false", body["success"])
	}
	if body["error"] == "" || body["error"] == nil {
		t.Fatal("error vacio en el sobre")
	}
}

func TestReadJSONMalformedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"a":`))
	r.Header.Set("Content-Type", "application/json")

	var v map[string]any
	if ReadJSON(rec, r, &v) {
		t.Fatal("ReadJSON acepto JSON roto")
	}
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeErrEnvelope(t, rec)
	if body["success"] != false {
		t.Fatalf("success = %v, want false", body["success"])
	}
}

func TestReadJSONEmptyBodyOK(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader(""))
	r.Header.Set("Content-Type", "application/json")

	var v map[string]any
	if !ReadJSON(rec, r, &v) {
		t.Fatal("body vacio debe ser tolerado")
	}
}
