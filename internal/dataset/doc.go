// Package dataset loads the entity records that facetfilter evaluates
// filters against, together with the per-category value counts used to
// enumerate candidate filter options.
//
// A dataset file is YAML (or JSON) with the following shape:
//
//	formatVersion: 1.0.0
//	identityCategory: strain
//	entities:
//	  - name: sample-1
//	    attributes:
//	      country: Brazil
//	      lineage: [B, B.1]
//	  - name: clade-root
//	    hasChildren: true
//	counts:
//	  country: {Brazil: 1}
//
// The counts table is optional; when absent it is computed from the leaf
// entities.
//
// Metadata tables (.csv, .tsv, .xlsx) are accepted as well. The first
// column holds entity names and names the identity category; every other
// column is a category.
package dataset
