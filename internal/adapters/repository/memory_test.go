package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/persona/internal/adapters/repository"
	"github.com/okian/persona/internal/domain/model"
	"github.com/okian/persona/internal/domain/trait"
	. "github.com/smartystreets/goconvey/convey"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newRegistry() *repository.InMemoryRegistry {
	return repository.NewInMemoryRegistry(context.Background(),
		repository.WithMetricsUpdateInterval(0),
		repository.WithClock(func() time.Time { return fixedNow }),
	)
}

func rec(id, role string) model.MemberRecord {
	return model.MemberRecord{
		MemberID:   id,
		Traits:     trait.Vector{O: 60, C: 60, E: 60, A: 60, N: 60},
		Role:       role,
		Department: "Dept-" + role,
	}
}

func TestRegistryUpsertGet(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		ctx := context.Background()
		r := newRegistry()
		defer r.Close()

		Convey("When a member is upserted", func() {
			created, err := r.Upsert(ctx, "g1", rec("alice", "Analyst"))
			So(err, ShouldBeNil)

			Convey("Then it is reported as new and readable", func() {
				So(created, ShouldBeTrue)
				got, err := r.Get(ctx, "g1", "alice")
				So(err, ShouldBeNil)
				So(got.Role, ShouldEqual, "Analyst")
				So(got.UpdatedAt, ShouldEqual, fixedNow)
			})

			Convey("And a second upsert overwrites instead of duplicating", func() {
				created, err := r.Upsert(ctx, "g1", rec("alice", "Operator"))
				So(err, ShouldBeNil)
				So(created, ShouldBeFalse)

				got, _ := r.Get(ctx, "g1", "alice")
				So(got.Role, ShouldEqual, "Operator")
				So(len(r.List(ctx, "g1")), ShouldEqual, 1)
			})

			Convey("And the member is invisible from other groups", func() {
				_, err := r.Get(ctx, "g2", "alice")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When ids are blank", func() {
			_, errGroup := r.Upsert(ctx, " ", rec("alice", "Analyst"))
			_, errMember := r.Upsert(ctx, "g1", rec("", "Analyst"))

			Convey("Then the upsert is refused", func() {
				So(errors.Is(errGroup, repository.ErrInvalidID), ShouldBeTrue)
				So(errors.Is(errMember, repository.ErrInvalidID), ShouldBeTrue)
				So(r.Stats(ctx), ShouldResemble, repository.Stats{})
			})
		})

		Convey("When a record already carries a timestamp", func() {
			stamped := rec("bob", "Anchor")
			stamped.UpdatedAt = fixedNow.Add(-time.Hour)
			_, _ = r.Upsert(ctx, "g1", stamped)

			Convey("Then it is kept", func() {
				got, _ := r.Get(ctx, "g1", "bob")
				So(got.UpdatedAt, ShouldEqual, fixedNow.Add(-time.Hour))
			})
		})
	})
}

func TestRegistryListRemove(t *testing.T) {
	Convey("Given a group with three members", t, func() {
		ctx := context.Background()
		r := newRegistry()
		defer r.Close()
		for _, id := range []string{"a", "b", "c"} {
			_, _ = r.Upsert(ctx, "g", rec(id, "Role-"+id))
		}

		Convey("Then List keeps first-insertion order", func() {
			ids := memberIDs(r.List(ctx, "g"))
			So(ids, ShouldResemble, []string{"a", "b", "c"})
		})

		Convey("When an existing member is upserted again", func() {
			_, _ = r.Upsert(ctx, "g", rec("a", "Changed"))

			Convey("Then it keeps its position", func() {
				list := r.List(ctx, "g")
				So(memberIDs(list), ShouldResemble, []string{"a", "b", "c"})
				So(list[0].Role, ShouldEqual, "Changed")
			})
		})

		Convey("When a member is removed", func() {
			So(r.Remove(ctx, "g", "b"), ShouldBeTrue)

			Convey("Then it is gone and the rest keep their order", func() {
				_, err := r.Get(ctx, "g", "b")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(memberIDs(r.List(ctx, "g")), ShouldResemble, []string{"a", "c"})
			})

			Convey("And re-adding it appends at the end", func() {
				_, _ = r.Upsert(ctx, "g", rec("b", "Back"))
				So(memberIDs(r.List(ctx, "g")), ShouldResemble, []string{"a", "c", "b"})
			})
		})

		Convey("When removing an unknown key", func() {
			Convey("Then it returns false without error", func() {
				So(r.Remove(ctx, "g", "zzz"), ShouldBeFalse)
				So(r.Remove(ctx, "nope", "a"), ShouldBeFalse)
			})
		})

		Convey("When listing an unknown group", func() {
			Convey("Then the result is empty, not nil", func() {
				list := r.List(ctx, "unknown")
				So(list, ShouldNotBeNil)
				So(list, ShouldBeEmpty)
			})
		})

		Convey("When mutating a listed slice", func() {
			list := r.List(ctx, "g")
			list[0].Role = "Mutated"

			Convey("Then the registry is unaffected", func() {
				got, _ := r.Get(ctx, "g", "a")
				So(got.Role, ShouldEqual, "Role-a")
			})
		})

		Convey("Then Stats counts groups and members", func() {
			_, _ = r.Upsert(ctx, "other", rec("z", "Z"))
			So(r.Stats(ctx), ShouldResemble, repository.Stats{Groups: 2, Members: 4})
		})
	})
}

func TestRegistryConcurrency(t *testing.T) {
	Convey("Given concurrent writers across groups", t, func() {
		ctx := context.Background()
		r := newRegistry()
		defer r.Close()

		const groups, members = 8, 50
		var wg sync.WaitGroup
		for g := 0; g < groups; g++ {
			for m := 0; m < members; m++ {
				wg.Add(2)
				gid, mid := fmt.Sprintf("g%d", g), fmt.Sprintf("m%d", m)
				go func() {
					defer wg.Done()
					_, _ = r.Upsert(ctx, gid, rec(mid, "First"))
				}()
				go func() {
					defer wg.Done()
					_, _ = r.Upsert(ctx, gid, rec(mid, "Second"))
				}()
			}
		}
		wg.Wait()

		Convey("Then every member is stored exactly once", func() {
			So(r.Stats(ctx), ShouldResemble, repository.Stats{Groups: groups, Members: groups * members})
			for g := 0; g < groups; g++ {
				So(len(r.List(ctx, fmt.Sprintf("g%d", g))), ShouldEqual, members)
			}
		})

		Convey("And each stored record is one of the submitted ones", func() {
			got, err := r.Get(ctx, "g0", "m0")
			So(err, ShouldBeNil)
			So(got.Role, ShouldBeIn, []string{"First", "Second"})
		})
	})

	Convey("Given readers racing writers and removers in one group", t, func() {
		ctx := context.Background()
		r := newRegistry()
		defer r.Close()

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(3)
			id := fmt.Sprintf("m%d", i)
			go func() { defer wg.Done(); _, _ = r.Upsert(ctx, "g", rec(id, "R")) }()
			go func() { defer wg.Done(); _ = r.List(ctx, "g") }()
			go func() { defer wg.Done(); _ = r.Remove(ctx, "g", id) }()
		}
		wg.Wait()

		Convey("Then listing and counting agree", func() {
			So(len(r.List(ctx, "g")), ShouldEqual, r.Stats(ctx).Members)
		})
	})
}

func TestRegistryMetricsUpdater(t *testing.T) {
	Convey("Given a registry with a short metrics interval", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		r := repository.NewInMemoryRegistry(ctx, repository.WithMetricsUpdateInterval(time.Millisecond))
		_, _ = r.Upsert(ctx, "g", rec("a", "R"))
		time.Sleep(5 * time.Millisecond)

		Convey("Then Close stops the updater cleanly", func() {
			So(r.Close(), ShouldBeNil)
			So(r.Close(), ShouldBeNil)
			cancel()
		})
	})
}

func memberIDs(rs []model.MemberRecord) []string {
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.MemberID
	}
	return ids
}
