package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "famledger/internal/errors"
	"famledger/internal/models"
	"famledger/internal/money"
	"famledger/internal/services"
)

type mockRecordService struct {
	listFn        func(userID string, query services.RecordQuery) ([]models.ExpenseRecord, error)
	createFn      func(userID string, input services.RecordInput) (*models.ExpenseRecord, error)
	getFn         func(userID, recordID string, scope services.RecordScope) (*models.ExpenseRecord, error)
	updateFn      func(userID, recordID string, scope services.RecordScope, input services.RecordInput, partial bool) (*models.ExpenseRecord, error)
	deleteFn      func(userID, recordID string, scope services.RecordScope) error
	attachImageFn func(ctx context.Context, userID, recordID string, scope services.RecordScope, upload services.ImageUpload) (*models.ExpenseRecord, error)
}

func (m *mockRecordService) List(userID string, query services.RecordQuery) ([]models.ExpenseRecord, error) {
	if m.listFn != nil {
		return m.listFn(userID, query)
	}
	return nil, nil
}

func (m *mockRecordService) Create(userID string, input services.RecordInput) (*models.ExpenseRecord, error) {
	if m.createFn != nil {
		return m.createFn(userID, input)
	}
	return &models.ExpenseRecord{}, nil
}

func (m *mockRecordService) Get(userID, recordID string, scope services.RecordScope) (*models.ExpenseRecord, error) {
	if m.getFn != nil {
		return m.getFn(userID, recordID, scope)
	}
	return &models.ExpenseRecord{Base: models.Base{ID: recordID}}, nil
}

func (m *mockRecordService) Update(userID, recordID string, scope services.RecordScope, input services.RecordInput, partial bool) (*models.ExpenseRecord, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, recordID, scope, input, partial)
	}
	return &models.ExpenseRecord{Base: models.Base{ID: recordID}}, nil
}

func (m *mockRecordService) Delete(userID, recordID string, scope services.RecordScope) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, recordID, scope)
	}
	return nil
}

func (m *mockRecordService) AttachImage(ctx context.Context, userID, recordID string, scope services.RecordScope, upload services.ImageUpload) (*models.ExpenseRecord, error) {
	if m.attachImageFn != nil {
		return m.attachImageFn(ctx, userID, recordID, scope, upload)
	}
	return &models.ExpenseRecord{Base: models.Base{ID: recordID}}, nil
}

type stubStorage struct{}

func (stubStorage) Save(context.Context, string, string, io.Reader) error { return nil }
func (stubStorage) Delete(context.Context, string) error                  { return nil }
func (stubStorage) URL(key string) string                                 { return "/media/" + key }

func setupRecordRouter(handler *RecordHandler) *gin.Engine {
	r := gin.New()
	r.Use(injectUserID(testUserID))
	r.GET("/record", handler.ListRecords)
	r.POST("/record", handler.CreateRecord)
	r.GET("/record/:id", handler.GetRecord)
	r.PUT("/record/:id", handler.ReplaceRecord)
	r.PATCH("/record/:id", handler.PatchRecord)
	r.DELETE("/record/:id", handler.DeleteRecord)
	r.POST("/record/:id/upload-image", handler.UploadImage)
	return r
}

func sampleRecord() models.ExpenseRecord {
	image := "uploads/record/receipt.jpg"
	return models.ExpenseRecord{
		Base:       models.Base{ID: testRecordID},
		UserID:     testUserID,
		CategoryID: testCategoryID,
		Date:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Amount:     money.MustParse("12.50"),
		Image:      &image,
		User:       models.User{Base: models.Base{ID: testUserID}, Email: "a@example.com"},
		Category:   models.Category{Base: models.Base{ID: testCategoryID}, Name: "Food"},
	}
}

func TestRecordHandler_ListRecords(t *testing.T) {
	t.Run("passes the parsed query", func(t *testing.T) {
		var got services.RecordQuery
		svc := &mockRecordService{
			listFn: func(_ string, q services.RecordQuery) ([]models.ExpenseRecord, error) {
				got = q
				return []models.ExpenseRecord{sampleRecord()}, nil
			},
		}
		r := setupRecordRouter(NewRecordHandler(svc, stubStorage{}, 0))

		rec := doRequest(r, "GET", "/record?type=family&year=2024&month=3&category="+testCategoryID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Scope != services.ScopeFamily {
			t.Errorf("expected family scope, got %s", got.Scope)
		}
		if got.Year == nil || *got.Year != 2024 || got.Month == nil || *got.Month != 3 || got.Day != nil {
			t.Errorf("unexpected calendar filter: %+v", got)
		}
		if got.CategoryID == nil || *got.CategoryID != testCategoryID {
			t.Errorf("expected category filter, got %v", got.CategoryID)
		}

		items := parseJSONArray(t, rec)
		if len(items) != 1 {
			t.Fatalf("expected 1 record, got %d", len(items))
		}
		item := items[0]
		if item["amount"] != "12.50" || item["date"] != "2024-03-15" {
			t.Errorf("unexpected amount/date: %v %v", item["amount"], item["date"])
		}
		if item["image"] != "/media/uploads/record/receipt.jpg" {
			t.Errorf("expected image URL, got %v", item["image"])
		}
		category := item["category"].(map[string]interface{})
		if category["name"] != "Food" {
			t.Errorf("expected nested category, got %v", category)
		}
		if item["family"] != nil {
			t.Errorf("expected null family, got %v", item["family"])
		}
	})

	t.Run("returns 400 on a bad filter", func(t *testing.T) {
		r := setupRecordRouter(NewRecordHandler(&mockRecordService{}, stubStorage{}, 0))

		rec := doRequest(r, "GET", "/record?year=abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestRecordHandler_CreateRecord(t *testing.T) {
	t.Run("returns 201 with the flat shape", func(t *testing.T) {
		var got services.RecordInput
		svc := &mockRecordService{
			createFn: func(_ string, input services.RecordInput) (*models.ExpenseRecord, error) {
				got = input
				r := sampleRecord()
				r.Image = nil
				return &r, nil
			},
		}
		r := setupRecordRouter(NewRecordHandler(svc, stubStorage{}, 0))

		rec := doRequest(r, "POST", "/record",
			`{"category":"`+testCategoryID+`","date":"2024-03-15","amount":"12.50","notes":null}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Amount == nil || got.Amount.Cents() != 1250 {
			t.Errorf("expected 1250 cents, got %v", got.Amount)
		}
		if got.Date == nil || !got.Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected date %v", got.Date)
		}
		if !got.Notes.Set || got.Notes.Value != nil {
			t.Errorf("expected explicit null notes, got %+v", got.Notes)
		}
		if got.Family.Set {
			t.Error("absent family should not be set")
		}
		result := parseJSON(t, rec)
		if result["category"] != testCategoryID || result["user"] != testUserID {
			t.Errorf("expected bare ids, got %v", result)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"three decimals", `{"category":"` + testCategoryID + `","date":"2024-03-15","amount":"1.005"}`},
		{"amount too large", `{"category":"` + testCategoryID + `","date":"2024-03-15","amount":"10000.00"}`},
		{"bad date", `{"category":"` + testCategoryID + `","date":"15/03/2024","amount":"1.00"}`},
		{"malformed category", `{"category":"food","date":"2024-03-15","amount":"1.00"}`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			called := false
			svc := &mockRecordService{
				createFn: func(string, services.RecordInput) (*models.ExpenseRecord, error) {
					called = true
					return &models.ExpenseRecord{}, nil
				},
			}
			r := setupRecordRouter(NewRecordHandler(svc, stubStorage{}, 0))

			rec := doRequest(r, "POST", "/record", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
			if called {
				t.Error("service should not be called for invalid input")
			}
		})
	}
}

func TestRecordHandler_ScopeFromQuery(t *testing.T) {
	var scope services.RecordScope
	svc := &mockRecordService{
		getFn: func(_, id string, s services.RecordScope) (*models.ExpenseRecord, error) {
			scope = s
			r := sampleRecord()
			return &r, nil
		},
		deleteFn: func(_, _ string, s services.RecordScope) error {
			scope = s
			return nil
		},
	}
	r := setupRecordRouter(NewRecordHandler(svc, stubStorage{}, 0))

	doRequest(r, "GET", "/record/"+testRecordID+"?type=personal", "")
	if scope != services.ScopePersonal {
		t.Errorf("expected personal scope, got %s", scope)
	}

	rec := doRequest(r, "DELETE", "/record/"+testRecordID+"?type=bogus", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if scope != services.ScopeOwned {
		t.Errorf("expected owned scope for unknown type, got %s", scope)
	}
}

func TestRecordHandler_GetRecord_NotFound(t *testing.T) {
	svc := &mockRecordService{
		getFn: func(_, _ string, _ services.RecordScope) (*models.ExpenseRecord, error) {
			return nil, apperrors.ErrRecordNotFound
		},
	}
	r := setupRecordRouter(NewRecordHandler(svc, stubStorage{}, 0))

	for _, path := range []string{"/record/" + testRecordID, "/record/42"} {
		rec := doRequest(r, "GET", path, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "RECORD_NOT_FOUND")
	}
}

func TestRecordHandler_Update(t *testing.T) {
	tests := []struct {
		method      string
		wantPartial bool
	}{
		{"PUT", false},
		{"PATCH", true},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			var partial bool
			var input services.RecordInput
			svc := &mockRecordService{
				updateFn: func(_, _ string, _ services.RecordScope, in services.RecordInput, p bool) (*models.ExpenseRecord, error) {
					partial, input = p, in
					r := sampleRecord()
					return &r, nil
				},
			}
			r := setupRecordRouter(NewRecordHandler(svc, stubStorage{}, 0))

			rec := doRequest(r, tt.method, "/record/"+testRecordID, `{"notes":"lunch"}`)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if partial != tt.wantPartial {
				t.Errorf("expected partial=%v, got %v", tt.wantPartial, partial)
			}
			if input.Notes.Value == nil || *input.Notes.Value != "lunch" {
				t.Errorf("expected notes to be passed, got %+v", input.Notes)
			}
			if input.Amount != nil || input.Date != nil {
				t.Error("absent fields must stay nil")
			}
		})
	}
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func doUpload(r *gin.Engine, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRecordHandler_UploadImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	t.Run("passes the file to the service", func(t *testing.T) {
		var upload services.ImageUpload
		var content []byte
		svc := &mockRecordService{
			attachImageFn: func(_ context.Context, _, _ string, _ services.RecordScope, u services.ImageUpload) (*models.ExpenseRecord, error) {
				upload = u
				content, _ = io.ReadAll(u.Content)
				r := sampleRecord()
				return &r, nil
			},
		}
		r := setupRecordRouter(NewRecordHandler(svc, stubStorage{}, 1<<20))
		body, ct := multipartBody(t, "image", "receipt.png", png)

		rec := doUpload(r, "/record/"+testRecordID+"/upload-image", body, ct)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if upload.Filename != "receipt.png" || !bytes.Equal(content, png) {
			t.Errorf("unexpected upload %q (%d bytes)", upload.Filename, len(content))
		}
		if parseJSON(t, rec)["image"] != "/media/uploads/record/receipt.jpg" {
			t.Error("expected image URL in response")
		}
	})

	t.Run("returns 400 without the image field", func(t *testing.T) {
		r := setupRecordRouter(NewRecordHandler(&mockRecordService{}, stubStorage{}, 1<<20))
		body, ct := multipartBody(t, "file", "receipt.png", png)

		rec := doUpload(r, "/record/"+testRecordID+"/upload-image", body, ct)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("rejects oversized uploads", func(t *testing.T) {
		r := setupRecordRouter(NewRecordHandler(&mockRecordService{}, stubStorage{}, 64))
		body, ct := multipartBody(t, "image", "receipt.png", bytes.Repeat([]byte{0}, 1024))

		rec := doUpload(r, "/record/"+testRecordID+"/upload-image", body, ct)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_IMAGE")
	})

	t.Run("maps service image errors", func(t *testing.T) {
		svc := &mockRecordService{
			attachImageFn: func(context.Context, string, string, services.RecordScope, services.ImageUpload) (*models.ExpenseRecord, error) {
				return nil, apperrors.ErrInvalidImage
			},
		}
		r := setupRecordRouter(NewRecordHandler(svc, stubStorage{}, 1<<20))
		body, ct := multipartBody(t, "image", "notes.txt", []byte("hello"))

		rec := doUpload(r, "/record/"+testRecordID+"/upload-image", body, ct)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_IMAGE")
	})
}
