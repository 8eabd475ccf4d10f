package projection_test

import (
	"testing"

	"github.com/sae3023/ProtoData/descriptor"
	"github.com/sae3023/ProtoData/event"
	"github.com/sae3023/ProtoData/projection"
)

// fieldCount is a trivial projection record: how many times a field
// whose name matches a tracked key was entered.
type fieldCount struct {
	name  string
	count int
}

func newFieldCountRepo() *projection.Repository[string, fieldCount] {
	return projection.NewRepository(
		func(ev event.Event) (string, bool) {
			fe, ok := ev.(*event.FieldEnteredEvent)
			if !ok {
				return "", false
			}
			return fe.Field.Name, true
		},
		func(prior fieldCount, ev event.Event) fieldCount {
			fe := ev.(*event.FieldEnteredEvent)
			prior.name = fe.Field.Name
			prior.count++
			return prior
		},
	)
}

func msg(name string) *descriptor.MessageType {
	return &descriptor.MessageType{Name: descriptor.TypeName{SimpleName: name, PackageName: "acme"}}
}

func TestRepositoryDispatchAndQuery(t *testing.T) {
	builder := projection.NewBuilder()
	repo := newFieldCountRepo()
	projection.Register(builder, repo)
	ctx := builder.Build()

	m := msg("Widget")
	size := &descriptor.Field{Name: "size", DeclaringType: m}
	weight := &descriptor.Field{Name: "weight", DeclaringType: m}

	ctx.Dispatch(event.NewFieldEntered(size))
	ctx.Dispatch(event.NewFieldEntered(weight))
	ctx.Dispatch(event.NewFieldEntered(size))
	ctx.Freeze()

	got, ok := projection.Select[string, fieldCount](ctx)
	if !ok {
		t.Fatal("repository not found after freeze")
	}
	sizeRecord, ok := got.Get("size")
	if !ok || sizeRecord.count != 2 {
		t.Fatalf("size record = %+v, ok=%v, want count 2", sizeRecord, ok)
	}
	all := got.All()
	if len(all) != 2 {
		t.Fatalf("All() = %d records, want 2 (first-touch order: size, weight)", len(all))
	}
	if all[0].name != "size" || all[1].name != "weight" {
		t.Errorf("All() order = %+v, want [size, weight]", all)
	}

	filtered := got.Query(func(r fieldCount) bool { return r.count > 1 })
	if len(filtered) != 1 || filtered[0].name != "size" {
		t.Errorf("Query(count>1) = %+v, want only size", filtered)
	}
}

func TestDispatchAfterFreezeIsNoop(t *testing.T) {
	builder := projection.NewBuilder()
	repo := newFieldCountRepo()
	projection.Register(builder, repo)
	ctx := builder.Build()
	ctx.Freeze()

	m := msg("Widget")
	ctx.Dispatch(event.NewFieldEntered(&descriptor.Field{Name: "size", DeclaringType: m}))

	got, _ := projection.Select[string, fieldCount](ctx)
	if len(got.All()) != 0 {
		t.Errorf("expected no records dispatched after Freeze, got %v", got.All())
	}
}

func TestSelectUnregisteredReturnsNotOk(t *testing.T) {
	builder := projection.NewBuilder()
	ctx := builder.Build()
	_, ok := projection.Select[string, fieldCount](ctx)
	if ok {
		t.Fatal("expected ok=false for a (key,record) pair nobody registered")
	}
}
