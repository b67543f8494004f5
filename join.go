package dimplot

import (
	"fmt"
	"strconv"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// withClusterColumn returns a copy of ann with a "cluster" string
// column derived from per-sample labels. Labels are matched to
// annotation rows by sample ID, not by position; annotation rows whose
// ID is absent from the matrix get "NA" (such rows cannot survive the
// join anyway).
func withClusterColumn(ann *table.Table, sampleIDs []string, labels []int) (*table.Table, error) {
	annIDs, err := idColumn(ann)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]int, len(sampleIDs))
	for i, id := range sampleIDs {
		if _, dup := byID[id]; !dup {
			byID[id] = labels[i]
		}
	}

	col := make([]string, len(annIDs))
	for i, id := range annIDs {
		if label, ok := byID[id]; ok {
			col[i] = strconv.Itoa(label)
		} else {
			col[i] = "NA"
		}
	}
	return table.NewBuilder(ann).Add("cluster", col).Done(), nil
}

// joinOnID inner-joins the embedding table with the annotation table on
// the "id" column. Row order follows the embedding table (the matrix
// sample order), so downstream sequential labels are reproducible.
// Rows without a match on either side are dropped; duplicate annotation
// IDs keep their first occurrence.
func joinOnID(emb, ann *table.Table) (*table.Table, error) {
	embIDs := emb.MustColumn("id").([]string)
	annIDs, err := idColumn(ann)
	if err != nil {
		return nil, err
	}

	annByID := make(map[string]int, len(annIDs))
	for i, id := range annIDs {
		if _, dup := annByID[id]; !dup {
			annByID[id] = i
		}
	}

	var embKeep, annKeep []int
	for i, id := range embIDs {
		if j, ok := annByID[id]; ok {
			embKeep = append(embKeep, i)
			annKeep = append(annKeep, j)
		}
	}

	b := new(table.Builder)
	for _, col := range emb.Columns() {
		b.Add(col, slice.Select(emb.MustColumn(col), embKeep))
	}
	for _, col := range ann.Columns() {
		if col == "id" {
			continue
		}
		b.Add(col, slice.Select(ann.MustColumn(col), annKeep))
	}
	return b.Done(), nil
}

func idColumn(ann *table.Table) ([]string, error) {
	col := ann.Column("id")
	if col == nil {
		return nil, fmt.Errorf("annotations have no \"id\" column (columns: %v); it must hold the matrix sample names", ann.Columns())
	}
	ids, ok := col.([]string)
	if !ok {
		return nil, fmt.Errorf("annotation \"id\" column must be []string, got %T", col)
	}
	return ids, nil
}
