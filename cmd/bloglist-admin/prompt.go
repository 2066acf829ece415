package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPassword reads without echo. Tests replace it.
var readPassword = term.ReadPassword

// promptPassword asks twice and requires both entries to match.
func promptPassword(w io.Writer) (string, error) {
	first, err := readOnce(w, "Password: ")
	if err != nil {
		return "", err
	}
	second, err := readOnce(w, "Repeat password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", fmt.Errorf("passwords do not match")
	}
	return first, nil
}

func readOnce(w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
