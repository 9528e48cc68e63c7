package ipc

import (
	"fmt"

	"github.com/solandra/arrowlite/arrowbatch"
	"github.com/solandra/arrowlite/arrowtable"
	"github.com/solandra/arrowlite/arrowtype"
	"github.com/solandra/arrowlite/errs"
)

// dictionaryContext accumulates dictionary batches by id across a stream or
// file. A non-delta batch clears and restarts its id's accumulator; a delta
// batch appends to it and must follow some prior non-delta batch for the
// same id. Column snapshots are memoized and invalidated on the next ingest
// for that id.
type dictionaryContext struct {
	valueTypes map[int64]arrowtype.Type
	batches    map[int64][]*arrowbatch.Batch
	frozen     map[int64]*arrowtable.Column
}

func newDictionaryContext(schema arrowtype.Schema) *dictionaryContext {
	return &dictionaryContext{
		valueTypes: schema.DictionaryFields(),
		batches:    make(map[int64][]*arrowbatch.Batch),
		frozen:     make(map[int64]*arrowtable.Column),
	}
}

// ingest decodes one DictionaryBatch message's single-column body and folds
// it into its id's accumulator.
func (dc *dictionaryContext) ingest(version MetadataVersion, h DictionaryBatchHeader, body []byte) error {
	valueType, ok := dc.valueTypes[h.ID]
	if !ok {
		return errs.FormatError(fmt.Errorf("%w: dictionary id %d not referenced by any field", errs.ErrUnknownTypeID, h.ID))
	}

	if !h.IsDelta {
		dc.batches[h.ID] = nil
	} else if len(dc.batches[h.ID]) == 0 {
		return errs.InvalidArgument(fmt.Errorf("%w: dictionary id %d", errs.ErrDeltaWithoutBase, h.ID))
	}

	valuesSchema := arrowtype.Schema{Fields: []arrowtype.Field{
		{Name: "item", Type: valueType, Nullable: true},
	}}
	decoded, err := LoadRecordBatch(version, valuesSchema, h.Data, body, nil)
	if err != nil {
		return err
	}

	dc.batches[h.ID] = append(dc.batches[h.ID], decoded[0])
	delete(dc.frozen, h.ID)
	return nil
}

// lookup freezes (memoized) and returns the values column for a dictionary
// id, or (nil, false) if nothing was ever ingested for it.
func (dc *dictionaryContext) lookup(id int64) (*arrowtable.Column, bool) {
	if col, ok := dc.frozen[id]; ok {
		return col, true
	}
	batches, ok := dc.batches[id]
	if !ok || len(batches) == 0 {
		return nil, false
	}
	field := arrowtype.Field{Name: "item", Type: dc.valueTypes[id], Nullable: true}
	col := arrowtable.NewColumn(field, batches)
	dc.frozen[id] = col
	return col, true
}
