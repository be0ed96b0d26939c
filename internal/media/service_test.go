package media

import (
	"errors"
	"testing"

	"streamflux/internal/platform/logger"
)

type fakeRemover struct {
	removed []string
	err     error
}

func (f *fakeRemover) RemoveURL(url string) error {
	f.removed = append(f.removed, url)
	return f.err
}

func TestService_List_unknown_category_returns_all(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, logger.Discard())
	_, _ = svc.Create(Item{Title: "ESPN HD", Category: CategorySports})
	_, _ = svc.Create(Item{Title: "Inception", Category: CategoryMovies})

	if got := svc.List("kids"); len(got) != 2 {
		t.Errorf("unknown category should be ignored, got %d items", len(got))
	}
	if got := svc.List("MOVIES"); len(got) != 1 || got[0].Title != "Inception" {
		t.Errorf("category filter should be case-insensitive, got %+v", got)
	}
}

func TestService_Create_normalises_category(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, logger.Discard())
	it, err := svc.Create(Item{Title: "Inception", Category: "Movies"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if it.Category != CategoryMovies {
		t.Errorf("expected movies, got %q", it.Category)
	}
}

func TestService_Delete_removes_uploaded_thumbnail(t *testing.T) {
	rm := &fakeRemover{}
	svc := NewService(NewInMemoryRepository(), rm, logger.Discard())
	uploaded, _ := svc.Create(Item{Title: "a", Category: CategoryMovies, ThumbnailURL: "https://streamflux.shop/uploads/media_x.png"})
	external, _ := svc.Create(Item{Title: "b", Category: CategoryMovies, ThumbnailURL: "https://cdn.example.com/b.png"})

	if _, err := svc.Delete(uploaded.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Delete(external.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(rm.removed) != 1 || rm.removed[0] != uploaded.ThumbnailURL {
		t.Errorf("expected only the uploaded thumbnail removed, got %v", rm.removed)
	}
}

func TestService_Delete_cleanup_failure_is_not_fatal(t *testing.T) {
	rm := &fakeRemover{err: errors.New("disk gone")}
	svc := NewService(NewInMemoryRepository(), rm, logger.Discard())
	it, _ := svc.Create(Item{Title: "a", Category: CategoryMovies, ThumbnailURL: "/uploads/a.png"})

	if _, err := svc.Delete(it.ID); err != nil {
		t.Errorf("cleanup failure should not fail delete: %v", err)
	}
	if svc.Count() != 0 {
		t.Error("item should be gone")
	}
}

func TestService_Seed(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, logger.Discard())

	n, err := svc.Seed(DemoCatalogue())
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != 12 {
		t.Errorf("expected 12 seeded, got %d", n)
	}
	list := svc.List("")
	if list[0].Title != "Manchester United vs Liverpool" {
		t.Errorf("seeded listing should keep catalogue order, first is %q", list[0].Title)
	}

	again, err := svc.Seed(DemoCatalogue())
	if err != nil || again != 0 {
		t.Errorf("seeding a non-empty repository should be a no-op, got %d, %v", again, err)
	}
}

func TestPatch_Apply(t *testing.T) {
	blank := ""
	if _, err := (Patch{Title: &blank}).Apply(Item{Title: "x"}); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("blank title should be rejected, got %v", err)
	}
	if !(Patch{}).Empty() {
		t.Error("zero patch should be empty")
	}
	league := "Serie A"
	got, err := (Patch{LeagueName: &league}).Apply(Item{Title: "Derby", Category: CategoryFootball})
	if err != nil || got.LeagueName != "Serie A" || got.Title != "Derby" {
		t.Errorf("unexpected apply result %+v, %v", got, err)
	}
}
