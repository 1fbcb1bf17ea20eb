package graph_test

import (
	"fmt"

	"github.com/matzehuels/kintree/pkg/core/family"
	"github.com/matzehuels/kintree/pkg/graph"
)

func ExampleFromFamily() {
	t := family.New()
	mother := t.AddMember(&family.Person{GivenName: "Maria", FamilyName: "Costa"})
	father := t.AddMember(&family.Person{GivenName: "João", FamilyName: "Costa"})
	son := t.AddMember(&family.Person{GivenName: "Rui", FamilyName: "Costa"})
	_ = t.AddPartner(mother.ID, father.ID)
	_ = t.AddChild(mother.ID, son.ID)

	g := graph.FromFamily(t)
	for _, n := range g.Nodes {
		fmt.Println(n.Label)
	}
	for _, e := range g.Edges {
		fmt.Println(e.Kind)
	}
	// Output:
	// Maria Costa
	// João Costa
	// Rui Costa
	// parent
	// partner
}

func ExampleUnmarshalLayout() {
	data := []byte(`{
	  "viz_type": "tree",
	  "width": 190,
	  "height": 210,
	  "cards": [{"id": "a", "label": "Ada", "x": 40, "y": 40}]
	}`)

	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(l.IsTree(), len(l.Cards), l.Cards[0].Label)
	// Output:
	// true 1 Ada
}
