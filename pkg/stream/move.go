package stream

// Move copies n bytes within s from offset from to offset to, handling
// overlapping ranges as if the data were first copied to a separate
// buffer. Neither cursor position is preserved.
func Move(s Stream, from, to, n int64) error {
	if n == 0 || from == to {
		return nil
	}
	const chunkSize = 4096
	buf := make([]byte, chunkSize)
	if to < from {
		// Copy forwards, starting at the front of the range.
		var done int64
		for done < n {
			c := n - done
			if c > chunkSize {
				c = chunkSize
			}
			if err := s.SeekRead(from+done, Start); err != nil {
				return err
			}
			if err := ReadFull(s, buf[:c]); err != nil {
				return err
			}
			if err := s.SeekWrite(to+done, Start); err != nil {
				return err
			}
			if err := WriteFull(s, buf[:c]); err != nil {
				return err
			}
			done += c
		}
		return nil
	}
	// Copy backwards, starting at the back of the range, so the
	// destination never overwrites data not yet read.
	remaining := n
	for remaining > 0 {
		c := remaining
		if c > chunkSize {
			c = chunkSize
		}
		remaining -= c
		if err := s.SeekRead(from+remaining, Start); err != nil {
			return err
		}
		if err := ReadFull(s, buf[:c]); err != nil {
			return err
		}
		if err := s.SeekWrite(to+remaining, Start); err != nil {
			return err
		}
		if err := WriteFull(s, buf[:c]); err != nil {
			return err
		}
	}
	return nil
}
