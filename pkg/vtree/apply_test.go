package vtree

import "testing"

func TestApplyUnknownIDFails(t *testing.T) {
	root := Element("root", "div", nil)

	_, err := Apply(root, []Patch{NewUpdateTextPatch("ghost", "boo")})
	if err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestApplyUnknownRefFails(t *testing.T) {
	root := Element("root", "div", nil)

	_, err := Apply(root, []Patch{NewAddChildPatch("root", "ghost", Text("t", "x"))})
	if err == nil {
		t.Fatal("expected error for unknown reference id")
	}
}

func TestApplyAddChildRefSemantics(t *testing.T) {
	root := list("a", "c")

	got, err := Apply(root, []Patch{
		NewAddChildPatch("list", "c", Element("b", "li", nil)),
		NewAddChildPatch("list", "", Element("d", "li", nil)),
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"a", "b", "c", "d"}
	if len(got.Children) != len(want) {
		t.Fatalf("child count = %d, want %d", len(got.Children), len(want))
	}
	for i, id := range want {
		if got.Children[i].ID != id {
			t.Errorf("child[%d] = %q, want %q", i, got.Children[i].ID, id)
		}
	}
}

func TestApplyMoveToEnd(t *testing.T) {
	root := list("a", "b", "c")

	got, err := Apply(root, []Patch{NewMoveChildPatch("a", "")})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"b", "c", "a"}
	for i, id := range want {
		if got.Children[i].ID != id {
			t.Errorf("child[%d] = %q, want %q", i, got.Children[i].ID, id)
		}
	}
}

func TestApplyRemoveRootYieldsEmpty(t *testing.T) {
	root := Element("root", "div", nil)

	got, err := Apply(root, []Patch{NewRemoveChildPatch("root")})
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected empty surface, got %v", got)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	root := Element("root", "div", nil, Text("t", "before"))

	_, err := Apply(root, []Patch{NewUpdateTextPatch("t", "after")})
	if err != nil {
		t.Fatal(err)
	}
	if root.Children[0].Text != "before" {
		t.Error("Apply mutated its input tree")
	}
}

func TestEqualIgnoresAttrOrder(t *testing.T) {
	a := Element("n", "div", []Attr{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}})
	b := Element("n", "div", []Attr{{Name: "b", Value: "2"}, {Name: "a", Value: "1"}})

	if !Equal(a, b) {
		t.Error("attribute order should not affect equality")
	}

	c := Element("n", "div", []Attr{{Name: "a", Value: "1"}, {Name: "b", Value: "X"}})
	if Equal(a, c) {
		t.Error("differing attribute value should break equality")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Element("root", "div", []Attr{{Name: "class", Value: "x"}},
		Element("child", "span", nil, Text("t", "hi")),
	)

	c := Clone(orig)
	c.Attrs[0].Value = "changed"
	c.Children[0].Children[0].Text = "bye"

	if orig.Attrs[0].Value != "x" {
		t.Error("clone shares attribute storage")
	}
	if orig.Children[0].Children[0].Text != "hi" {
		t.Error("clone shares child nodes")
	}
}

func TestCloneForcesMemos(t *testing.T) {
	orig := Element("root", "div", nil,
		Memo("k", func() *Node { return Text("t", "value") }),
	)

	c := Clone(orig)

	if len(c.Children) != 1 || c.Children[0].Kind != KindText {
		t.Fatalf("clone did not force memo child: %+v", c.Children)
	}
	if c.Children[0].Text != "value" {
		t.Errorf("Text = %q, want value", c.Children[0].Text)
	}
}
