package document

import (
	"errors"
	"testing"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/constants"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/common"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/extraction"
)

func TestStoreAddAndList(t *testing.T) {
	s := NewStore()
	s.Add(&Document{ID: "doc_a"}, &Document{ID: "doc_b"})
	s.Add(&Document{ID: "doc_c"})

	list := s.List()
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	for i, want := range []string{"doc_a", "doc_b", "doc_c"} {
		if list[i].ID != want {
			t.Errorf("list[%d] = %s, want %s", i, list[i].ID, want)
		}
	}
}

func TestStoreGetMissing(t *testing.T) {
	s := NewStore()
	if _, err := s.Get("doc_x"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStoreUpdateCopyOnWrite(t *testing.T) {
	s := NewStore()
	s.Add(&Document{ID: "doc_a", Status: constants.DocStatusPending})
	before := s.List()

	updated, err := s.Update("doc_a", func(d *Document) error {
		d.Status = constants.DocStatusProcessing
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != constants.DocStatusProcessing {
		t.Errorf("updated status = %s", updated.Status)
	}
	if before[0].Status != constants.DocStatusPending {
		t.Error("pre-update snapshot was mutated")
	}

	after, _ := s.Get("doc_a")
	if after.Status != constants.DocStatusProcessing {
		t.Errorf("stored status = %s", after.Status)
	}
}

func TestStoreUpdateErrorLeavesDocument(t *testing.T) {
	s := NewStore()
	s.Add(&Document{ID: "doc_a", Status: constants.DocStatusPending})

	wantErr := errors.New("rejected")
	if _, err := s.Update("doc_a", func(d *Document) error {
		d.Status = constants.DocStatusError
		return wantErr
	}); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v", err)
	}

	doc, _ := s.Get("doc_a")
	if doc.Status != constants.DocStatusPending {
		t.Errorf("status = %s, failed mutation must not stick", doc.Status)
	}
}

func TestStoreUpdateDeepCopiesData(t *testing.T) {
	data := extraction.NewData()
	data.Scalars["k"] = extraction.Bare("v")
	s := NewStore()
	s.Add(&Document{ID: "doc_a", Status: constants.DocStatusReview, Data: data})
	before, _ := s.Get("doc_a")

	_, err := s.Update("doc_a", func(d *Document) error {
		d.Data.SetScalar("k", "edited")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := before.Data.Scalar("k").String(); got != "v" {
		t.Errorf("old snapshot data = %q, edit leaked across versions", got)
	}
}
