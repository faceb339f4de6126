package templates

import "fmt"

func goAPI(name string) FileSet {
	return FileSet{
		"main.go": fmt.Sprintf(`package main

import (
	"encoding/json"
	"log"
	"net/http"
)

type statusResponse struct {
	Service string `+"`json:\"service\"`"+`
	Status  string `+"`json:\"status\"`"+`
}

func homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{Service: %q, Status: "running"})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{Status: "healthy"})
}

func main() {
	http.HandleFunc("/", homeHandler)
	http.HandleFunc("/health", healthHandler)

	log.Println("listening on :8080")
	log.Fatal(http.ListenAndServe(":8080", nil))
}
`, name),
		"main_test.go": `package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	healthHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestHomeHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	homeHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}
`,
		"go.mod": fmt.Sprintf("module %s\n\ngo 1.22\n", name),
	}
}

func goCLI(name string) FileSet {
	return FileSet{
		"main.go": fmt.Sprintf(`package main

import (
	"flag"
	"fmt"
	"os"
)

func run(args []string) error {
	fs := flag.NewFlagSet(%q, flag.ContinueOnError)
	verbose := fs.Bool("verbose", false, "enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *verbose {
		fmt.Println("verbose mode")
	}
	fmt.Println("ok")
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
`, name),
		"main_test.go": `package main

import "testing"

func TestRun(t *testing.T) {
	if err := run(nil); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

func TestRunVerbose(t *testing.T) {
	if err := run([]string{"-verbose"}); err != nil {
		t.Fatalf("run(-verbose) error = %v", err)
	}
}
`,
		"go.mod": fmt.Sprintf("module %s\n\ngo 1.22\n", name),
	}
}

func goBasic(name string) FileSet {
	return FileSet{
		"main.go": fmt.Sprintf(`package main

import "fmt"

func greeting() string {
	return "Hello from %s"
}

func main() {
	fmt.Println(greeting())
}
`, name),
		"main_test.go": `package main

import (
	"strings"
	"testing"
)

func TestGreeting(t *testing.T) {
	if got := greeting(); !strings.HasPrefix(got, "Hello") {
		t.Fatalf("greeting() = %q", got)
	}
}
`,
		"go.mod": fmt.Sprintf("module %s\n\ngo 1.22\n", name),
	}
}
