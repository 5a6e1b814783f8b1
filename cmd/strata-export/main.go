// Command strata-export renders comparison and member-list CSVs from cohort
// definitions and user-record CSVs, without running a server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/klejdi94/strata/cohort"
	"github.com/klejdi94/strata/core"
	"github.com/klejdi94/strata/export"
	"github.com/klejdi94/strata/ingest"
	"github.com/klejdi94/strata/stats"
)

func main() {
	aiCode := flag.String("ai-code", "", "AI code metrics CSV")
	features := flag.String("features", "", "Feature flags CSV")
	agents := flag.String("agents", "", "Agent usage CSV")
	defs := flag.String("cohorts", "", "Cohort definitions JSON (from /cohorts/export)")
	members := flag.String("members", "", "Write the member list of this cohort name instead of the comparison")
	out := flag.String("out", "", "Output file (default stdout)")
	flag.Parse()

	if *defs == "" {
		log.Fatal("-cohorts is required")
	}

	var datasets []ingest.Dataset
	for _, src := range []struct {
		path   string
		source ingest.Source
	}{
		{*aiCode, ingest.SourceAICode},
		{*features, ingest.SourceFeatures},
		{*agents, ingest.SourceAgents},
	} {
		if src.path == "" {
			continue
		}
		users, err := readUsers(src.path)
		if err != nil {
			log.Fatalf("%s: %v", src.path, err)
		}
		datasets = append(datasets, ingest.Dataset{Source: src.source, Users: users})
	}
	if len(datasets) == 0 {
		log.Fatal("at least one of -ai-code, -features, -agents is required")
	}
	users := ingest.Merge(datasets...)

	data, err := os.ReadFile(*defs)
	if err != nil {
		log.Fatalf("read cohorts: %v", err)
	}
	res := export.ImportDefinitions(data)
	for _, e := range res.Errors {
		log.Printf("skipping cohort: %s", e)
	}
	if len(res.Cohorts) == 0 {
		log.Fatal("no usable cohorts in definitions file")
	}

	var output string
	if *members != "" {
		c, ok := findByName(res.Cohorts, *members)
		if !ok {
			log.Fatalf("no cohort named %q", *members)
		}
		output = export.MemberList(c, users)
	} else {
		if len(res.Cohorts) > cohort.MaxCompare {
			log.Fatalf("at most %d cohorts can be compared (file has %d)", cohort.MaxCompare, len(res.Cohorts))
		}
		output = export.Comparison(stats.Compare(users, res.Cohorts))
	}

	if *out == "" {
		fmt.Print(output)
		return
	}
	if err := os.WriteFile(*out, []byte(output), 0644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	log.Printf("wrote %s", *out)
}

func readUsers(path string) ([]core.UserRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ingest.ReadUsers(f)
}

func findByName(cohorts []cohort.Cohort, name string) (cohort.Cohort, bool) {
	for _, c := range cohorts {
		if c.Name == name {
			return c, true
		}
	}
	return cohort.Cohort{}, false
}
