// Package failure defines the closed error taxonomy shared by every pipeline
// stage and the disposition each kind maps to.
//
// Disposition is the pipeline's only vocabulary for "what happens to this
// delivery." No stage package may thread booleans (retryable, fatal, ...)
// through the pipeline on its own terms. It tags its error with a Kind and
// the mapping here is the single place that turns a Kind into an ack policy.
package failure

// Kind is the closed taxonomy from the error model. A Kind never carries
// behavior by itself; Disposition() is the only thing that reads it.
type Kind string

const (
	KindNetwork       Kind = "network_error"
	KindUnreachable   Kind = "unreachable_error"
	KindInvalidURL    Kind = "invalid_url"
	KindInvalidPage   Kind = "invalid_page"
	KindParsing       Kind = "parsing_error"
	KindInvalidTask   Kind = "invalid_task"
	KindArchiveServer Kind = "archive_server_error"
	KindInvalidData   Kind = "invalid_data"
)

// Disposition is the pipeline's ack/drop/requeue decision for one delivery.
type Disposition int

const (
	Ack Disposition = iota
	Drop
	Requeue
)

func (d Disposition) String() string {
	switch d {
	case Ack:
		return "ack"
	case Drop:
		return "drop"
	case Requeue:
		return "requeue"
	default:
		return "unknown"
	}
}

// dispositionByKind is the single mapping from error kind to ack policy.
// NetworkError/UnreachableError/ArchiveServerError requeue; everything else
// that reaches a disposition decision from a kind is dropped with no requeue.
var dispositionByKind = map[Kind]Disposition{
	KindNetwork:       Requeue,
	KindUnreachable:   Requeue,
	KindArchiveServer: Requeue,
	KindInvalidURL:    Drop,
	KindInvalidPage:   Drop,
	KindParsing:       Drop,
	KindInvalidTask:   Drop,
	KindInvalidData:   Drop,
}

// Disposition maps a Kind to its ack policy. An unrecognised Kind is treated
// as Drop rather than Requeue, so an unclassified bug cannot wedge a task in
// an infinite requeue loop.
func (k Kind) Disposition() Disposition {
	if d, ok := dispositionByKind[k]; ok {
		return d
	}
	return Drop
}

// ClassifiedError is any stage error that carries a Kind the pipeline can map
// to a Disposition. Every stage's local error type implements this.
type ClassifiedError interface {
	error
	Kind() Kind
}
