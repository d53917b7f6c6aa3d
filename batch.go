package webrpc

// idable exposes the id of a batchable message.
type idable interface {
	batchID() ID
}

// Batchable represents the message types a [Batch] can hold.
type Batchable interface {
	*Request | *Response
	idable
}

// Batch is an ordered collection of requests or responses processed
// together. It offers ID-based lookup for correlating batch responses
// with the requests that produced them; transports and clients built
// above the core use it to assemble and pick apart batch payloads.
type Batch[B Batchable] []B

// NewBatch creates an empty [Batch] with capacity for size items.
func NewBatch[B Batchable](size int) Batch[B] {
	return make(Batch[B], 0, size)
}

// Add appends one or more items to the batch.
func (b *Batch[B]) Add(v ...B) {
	*b = append(*b, v...)
}

// Index returns the position of the first item matching id, or -1 when no
// item matches. Null ids are not addressable and always return -1.
func (b *Batch[B]) Index(id ID) int {
	if id.IsNull() {
		return -1
	}

	for i, v := range *b {
		if itemID := v.batchID(); !itemID.IsNull() && id.Equal(itemID) {
			return i
		}
	}

	return -1
}

// Contains reports whether the batch holds an item with the given id.
func (b *Batch[B]) Contains(id ID) bool {
	return b.Index(id) >= 0
}

// Get returns the first item matching id, or the zero value and false when
// no item matches.
func (b *Batch[B]) Get(id ID) (B, bool) {
	i := b.Index(id)
	if i < 0 {
		var zero B
		return zero, false
	}

	return (*b)[i], true
}

// Delete removes the first item matching id, preserving the order of the
// remaining items. It returns the removed item and true, or the zero value
// and false when no item matched.
func (b *Batch[B]) Delete(id ID) (B, bool) {
	i := b.Index(id)
	if i < 0 {
		var zero B
		return zero, false
	}

	deleted := (*b)[i]
	oldLen := len(*b)

	*b = append((*b)[:i], (*b)[i+1:]...)
	clear((*b)[len(*b):oldLen])

	return deleted, true
}

// Correlate matches responses to the requests that produced them by id.
//
// For every request, correlated is called with the request and its
// matching response, or nil when none exists (notifications never match).
// Responses left unmatched after all requests are visited are reported as
// (nil, response). Returning false from correlated stops the walk.
//
// Ids are assumed unique within each batch; duplicates match their first
// occurrence.
func Correlate(requests Batch[*Request], responses Batch[*Response], correlated func(req *Request, res *Response) bool) {
	matched := make(map[any]bool, len(responses))

	for _, req := range requests {
		if req.IsNotification() {
			if !correlated(req, nil) {
				return
			}

			continue
		}

		res, found := responses.Get(req.ID)
		if found {
			matched[res.ID.Value()] = true
		}

		if !correlated(req, res) {
			return
		}
	}

	for _, res := range responses {
		if !matched[res.ID.Value()] {
			if !correlated(nil, res) {
				return
			}
		}
	}
}
