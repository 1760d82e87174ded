package resolver

// resolveAsyncClosure runs the async-reachability fixed point over the
// call graph recorded in callEdges during the statement/expression walk
// (§4.D, §8 scenario 7/8: "a function is async if it directly or
// transitively calls something async — sleep(...), or another function
// already known to be async"). A plain name-based graph plus repeated
// relaxation handles mutual recursion without needing a proper SCC
// decomposition, since the function/builtin count in one compilation
// unit is small and the loop converges in at most len(funcsByName)
// passes.
func (r *Resolver) resolveAsyncClosure() {
	changed := true
	for changed {
		changed = false
		for fd, callees := range r.callEdges {
			if fd.IsAsync {
				continue
			}
			for _, callee := range callees {
				if asyncBuiltins[callee] {
					fd.IsAsync = true
					changed = true
					break
				}
				if target, ok := r.funcsByName[callee]; ok && target.IsAsync {
					fd.IsAsync = true
					changed = true
					break
				}
			}
		}
	}
}
