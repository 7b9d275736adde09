package cache

import (
    "context"
    "fmt"
    "hash/fnv"

    "github.com/signoffhq/signoff/internal/ports"
)

// Key layout. Everything lives under one namespace so a full flush is a
// single prefix delete.
const ns = "signoff:approvals:"

func IDKey(id string) string         { return ns + "id:" + id }
func ReferenceKey(ref string) string { return ns + "ref:" + ref }

// ListKey is the composite signature of a scoped list query: the actor's
// identity and org pin the scope, the filter+page hash pins the query.
func ListKey(actor ports.Actor, f ports.Filter, p ports.Page) string {
    h := fnv.New64a()
    fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s|%v|%v|%s|%d|%d|%s",
        f.Status, f.Type, f.Priority, f.RequesterID, f.ApproverID, f.BranchID,
        f.Overdue, f.IncludeDeleted, f.Search, p.Page, p.Size, p.Sort)
    return fmt.Sprintf("%slist:%s:%s:%x", ns, actor.OrgID, actor.UserID, h.Sum64())
}

func StatsKey(actor ports.Actor) string {
    return fmt.Sprintf("%sstats:%s:%s", ns, actor.OrgID, actor.UserID)
}

// derivedPrefixes enumerates every key family a mutation of the approval
// can have populated.
func derivedPrefixes(a *ports.Approval) []string {
    out := []string{
        ns + "list:",
        ns + "stats:",
        ns + "req:" + a.RequesterID,
        ns + "apr:" + a.ApproverID,
        ns + "org:" + a.OrgID,
        ns + "type:" + string(a.Type),
        ns + "status:" + string(a.Status),
        ns + "prio:" + string(a.Priority),
    }
    if a.BranchID != "" {
        out = append(out, ns+"branch:"+a.BranchID)
    }
    if a.DelegatedTo != "" {
        out = append(out, ns+"apr:"+a.DelegatedTo)
    }
    return out
}

// Invalidate removes every cache entry a mutation of the approval could
// have made stale: the id- and reference-keyed entries, all scoped list
// and stats entries, and the keys derived from the approval's parties
// and classification. It runs synchronously; the caller decides whether
// a failure is fatal.
func Invalidate(ctx context.Context, c Cache, a *ports.Approval) error {
    if err := c.Delete(ctx, IDKey(a.ID), ReferenceKey(a.Reference)); err != nil {
        return err
    }
    for _, p := range derivedPrefixes(a) {
        if err := c.DeletePrefix(ctx, p); err != nil {
            return err
        }
    }
    return nil
}
