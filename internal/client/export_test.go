// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import "time"

// SetLoadTimeout shortens the watchdog deadline so tests need not wait the
// production five seconds.
func (state *State) SetLoadTimeout(timeout time.Duration) {
	state.mu.Lock()
	state.loadTimeout = timeout
	state.mu.Unlock()
}
