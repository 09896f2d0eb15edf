// genhash prints bcrypt hashes for seeding accounts directly in the database.
//
//	go run scripts/genhash.go <password>...
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Same cost as account registration.
const cost = 10

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: genhash <password>...")
		os.Exit(2)
	}

	for _, pass := range os.Args[1:] {
		hash, err := bcrypt.GenerateFromPassword([]byte(pass), cost)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}
		fmt.Println(string(hash))
	}
}
