package chat

import (
	"workforce/services/chat-state/internal/infrastructure/metrics"
)

// AddApprovalRequest registers a pending approval. Details are normalized to
// an empty map, the status is forced to pending and CreatedAt stamped here.
// Re-delivery of an id already in the collection replaces it in place rather
// than duplicating.
func (s *Store) AddApprovalRequest(req ApprovalRequest) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ID == "" {
		req.ID = s.newID("appr")
	}
	if req.Details == nil {
		req.Details = map[string]any{}
	}
	req.Status = ApprovalPending
	req.CreatedAt = s.now()

	stored := req
	for i, existing := range s.approvals {
		if existing.ID == req.ID {
			s.approvals[i] = &stored
			s.notifyLocked(EventApprovals, req.ID)
			return req.ID
		}
	}
	s.approvals = append(s.approvals, &stored)
	metrics.PendingApprovals.Set(float64(len(s.approvals)))

	s.notifyLocked(EventApprovals, req.ID)
	return req.ID
}

// ApproveOperation resolves a request as approved and removes it from the
// pending collection. Resolved requests are not retained; a caller that
// needs an audit trail must persist the request before resolving it.
func (s *Store) ApproveOperation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := s.removeApprovalLocked(id)
	if req == nil {
		return
	}
	now := s.now()
	req.Status = ApprovalApproved
	req.ApprovedAt = &now
	metrics.ApprovalsResolved.WithLabelValues("approved").Inc()

	s.notifyLocked(EventApprovals, id)
}

// RejectOperation resolves a request as rejected and removes it from the
// pending collection.
func (s *Store) RejectOperation(id, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := s.removeApprovalLocked(id)
	if req == nil {
		return
	}
	now := s.now()
	req.Status = ApprovalRejected
	req.RejectedAt = &now
	req.RejectionReason = reason
	metrics.ApprovalsResolved.WithLabelValues("rejected").Inc()

	s.notifyLocked(EventApprovals, id)
}

// RemoveApprovalRequest drops a request without resolving it, e.g. on
// timeout or cancellation.
func (s *Store) RemoveApprovalRequest(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.removeApprovalLocked(id) != nil {
		s.notifyLocked(EventApprovals, id)
	}
}

func (s *Store) removeApprovalLocked(id string) *ApprovalRequest {
	for i, req := range s.approvals {
		if req.ID == id {
			s.approvals = append(s.approvals[:i], s.approvals[i+1:]...)
			metrics.PendingApprovals.Set(float64(len(s.approvals)))
			return req
		}
	}
	return nil
}

// PendingApprovals returns a copy of the unresolved approval requests.
func (s *Store) PendingApprovals() []ApprovalRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ApprovalRequest, len(s.approvals))
	for i, req := range s.approvals {
		out[i] = *req
	}
	return out
}

// SetTrustedWorkflow installs or replaces a whole-workflow trust record.
func (s *Store) SetTrustedWorkflow(wf TrustedWorkflow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if wf.Hash == "" {
		return
	}
	if wf.CreatedAt.IsZero() {
		wf.CreatedAt = s.now()
	}
	if wf.ActionSignatures == nil {
		wf.ActionSignatures = []string{}
	}
	stored := wf
	s.trustedWorkflows[wf.Hash] = &stored

	s.notifyLocked(EventApprovals, wf.Hash)
	s.markDirtyLocked()
}

// RemoveTrustedWorkflow forgets a workflow's trust record.
func (s *Store) RemoveTrustedWorkflow(hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trustedWorkflows[hash]; !ok {
		return
	}
	delete(s.trustedWorkflows, hash)

	s.notifyLocked(EventApprovals, hash)
	s.markDirtyLocked()
}

// RecordTrustedAction upserts the workflow entry and adds the signature to
// its set if not already present.
func (s *Store) RecordTrustedAction(hash, signature string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordTrustedActionLocked(hash, signature)
}

func (s *Store) recordTrustedActionLocked(hash, signature string) {
	if hash == "" || signature == "" {
		return
	}

	wf, ok := s.trustedWorkflows[hash]
	if !ok {
		wf = &TrustedWorkflow{
			Hash:             hash,
			CreatedAt:        s.now(),
			ActionSignatures: []string{},
		}
		s.trustedWorkflows[hash] = wf
	}
	for _, sig := range wf.ActionSignatures {
		if sig == signature {
			return
		}
	}
	wf.ActionSignatures = append(wf.ActionSignatures, signature)

	s.notifyLocked(EventApprovals, hash)
	s.markDirtyLocked()
}

// IsActionTrusted reports whether a workflow+action pair was previously
// trusted. An empty hash or signature is unconditionally untrusted; the
// lookup never fails.
func (s *Store) IsActionTrusted(hash, signature string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hash == "" || signature == "" {
		return false
	}
	wf, ok := s.trustedWorkflows[hash]
	if !ok {
		return false
	}
	for _, sig := range wf.ActionSignatures {
		if sig == signature {
			return true
		}
	}
	return false
}

// TrustedWorkflows returns a copy of the trust cache keyed by hash.
func (s *Store) TrustedWorkflows() map[string]TrustedWorkflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]TrustedWorkflow, len(s.trustedWorkflows))
	for hash, wf := range s.trustedWorkflows {
		cp := *wf
		cp.ActionSignatures = append([]string(nil), wf.ActionSignatures...)
		out[hash] = cp
	}
	return out
}
