package main

import (
	"fmt"
	"log"

	"github.com/theflywheel/siptable"
)

func main() {
	key, err := siptable.RandomKey()
	if err != nil {
		log.Fatalf("Failed to generate key: %v", err)
	}

	t, err := siptable.New[string, int](
		siptable.WithSecretKey(key),
		siptable.WithProbeStrategy(siptable.Pythonic),
	)
	if err != nil {
		log.Fatalf("Failed to build table: %v", err)
	}

	fmt.Println("Table created with pythonic probing")

	// Insert some data
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon",
		"zeta", "eta", "theta", "iota", "kappa"}
	for i, w := range words {
		t.Update(w, i*100)
	}

	fmt.Printf("Inserted %d key-value pairs (capacity %d, used %d)\n",
		len(words), t.Cap(), t.Used())

	// Retrieve a few values
	for _, w := range []string{"alpha", "epsilon", "kappa", "omega"} {
		if v, ok := t.Get(w); ok {
			fmt.Printf("Key %q => Value %d\n", w, v)
		} else {
			fmt.Printf("Key %q not found\n", w)
		}
	}

	// Update a value and delete another
	t.Update("beta", 999)
	t.Remove("gamma")

	if v, ok := t.Get("beta"); ok {
		fmt.Printf("Updated key %q => Value %d\n", "beta", v)
	}
	if _, ok := t.Get("gamma"); !ok {
		fmt.Println("Key \"gamma\" removed")
	}

	fmt.Printf("Live entries: %d, collisions observed: %d\n",
		len(t.Items()), t.Collisions())
	fmt.Println("Example completed successfully")
}
