package metrics

// IncrementThreadCreated counts a created thread by its type
func (m *Metrics) IncrementThreadCreated(threadType string) {
	m.safeExecute("IncrementThreadCreated", func() {
		m.ThreadCreatedTotal.WithLabelValues(threadType).Inc()
	})
}

// IncrementCommentCreated counts a created comment; replies are labelled separately
func (m *Metrics) IncrementCommentCreated(isReply bool) {
	m.safeExecute("IncrementCommentCreated", func() {
		kind := "top_level"
		if isReply {
			kind = "reply"
		}
		m.CommentCreatedTotal.WithLabelValues(kind).Inc()
	})
}

// IncrementTagCreated increments tag creation counter
func (m *Metrics) IncrementTagCreated() {
	m.safeExecute("IncrementTagCreated", func() {
		m.TagCreatedTotal.Inc()
	})
}

// IncrementTagConflict increments the duplicate-slug counter
func (m *Metrics) IncrementTagConflict() {
	m.safeExecute("IncrementTagConflict", func() {
		m.TagConflictsTotal.Inc()
	})
}

// RecordVoteToggle counts an upvote toggle on a thread or comment
func (m *Metrics) RecordVoteToggle(target string, upvoted bool) {
	m.safeExecute("RecordVoteToggle", func() {
		direction := "removed"
		if upvoted {
			direction = "added"
		}
		m.VoteToggledTotal.WithLabelValues(target, direction).Inc()
	})
}

// RecordCacheLookup counts a thread list cache hit or miss
func (m *Metrics) RecordCacheLookup(hit bool) {
	m.safeExecute("RecordCacheLookup", func() {
		result := "miss"
		if hit {
			result = "hit"
		}
		m.CacheRequestsTotal.WithLabelValues(result).Inc()
	})
}

// AddCountersRepaired adds to the reconcile job's repair counter
func (m *Metrics) AddCountersRepaired(n int64) {
	m.safeExecute("AddCountersRepaired", func() {
		m.CountersRepaired.Add(float64(n))
	})
}

// SetThreadsTotal sets total threads gauge
func (m *Metrics) SetThreadsTotal(count int64) {
	m.safeExecute("SetThreadsTotal", func() {
		m.ThreadsTotal.Set(float64(count))
	})
}

// SetCommentsTotal sets total comments gauge
func (m *Metrics) SetCommentsTotal(count int64) {
	m.safeExecute("SetCommentsTotal", func() {
		m.CommentsTotal.Set(float64(count))
	})
}

// SetTagsTotal sets total tags gauge
func (m *Metrics) SetTagsTotal(count int64) {
	m.safeExecute("SetTagsTotal", func() {
		m.TagsTotal.Set(float64(count))
	})
}
