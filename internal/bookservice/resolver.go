package bookservice

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/marchant/folium/internal/apperr"
	"github.com/marchant/folium/internal/models"
	"github.com/marchant/folium/internal/store"
)

// slugAttempts bounds the -2, -3, ... collision loop before the
// time-derived fallback takes over.
const slugAttempts = 10

// lookupAttempts bounds the find-or-insert retry when concurrent
// imports race on a uniqueness constraint.
const lookupAttempts = 3

var (
	numericNameRe  = regexp.MustCompile(`^\d+$`)
	numberSuffixRe = regexp.MustCompile(`^(.*?)(\d+)$`)
)

// resolveBook returns the id of the book with the exact given title,
// creating it when absent. When the book exists, non-empty fields are
// applied as an update. A lost insert race (uniqueness violation on
// title) re-runs the lookup instead of failing.
func (s *Service) resolveBook(title string, fields store.BookFields) (string, error) {
	var bookID string
	err := retry.Do(
		func() error {
			b, err := s.store.FindBookByTitle(title)
			if err == nil {
				if fields != (store.BookFields{}) {
					if err := s.store.UpdateBook(b.ID, fields); err != nil {
						return retry.Unrecoverable(err)
					}
				}
				bookID = b.ID
				return nil
			}
			if !errors.Is(err, apperr.ErrNotFound) {
				return retry.Unrecoverable(err)
			}
			nb := &models.Book{
				Title:       title,
				Author:      fields.Author,
				Subtitle:    fields.Subtitle,
				Description: fields.Description,
				CoverAlt:    fields.CoverAlt,
			}
			if err := s.store.InsertBook(nb); err != nil {
				if store.IsConstraint(err) {
					// Another import created the book first; look it up again.
					return err
				}
				return retry.Unrecoverable(err)
			}
			s.notify(EventBookCreated, title)
			bookID = nb.ID
			return nil
		},
		retry.Attempts(lookupAttempts),
		retry.Delay(10*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("bookservice: resolve book: %w", err)
	}
	return bookID, nil
}

// resolveVersion finds or creates a version for the import. A free
// requested name is created verbatim; a taken name never reuses the
// existing version — a fresh one is minted under the next free name.
func (s *Service) resolveVersion(bookID, requested string) (*models.Version, error) {
	base := requested
	if base == "" {
		base = "1"
	}

	var out *models.Version
	err := retry.Do(
		func() error {
			name := base
			_, err := s.store.FindVersion(bookID, base)
			switch {
			case err == nil:
				names, err := s.store.VersionNames(bookID)
				if err != nil {
					return retry.Unrecoverable(err)
				}
				name = nextVersionName(base, names)
			case !errors.Is(err, apperr.ErrNotFound):
				return retry.Unrecoverable(err)
			}

			v := &models.Version{BookID: bookID, Name: name}
			if err := s.store.InsertVersion(v); err != nil {
				if store.IsConstraint(err) {
					// Raced with another import on (book, name); recompute.
					return err
				}
				return retry.Unrecoverable(err)
			}
			out = v
			return nil
		},
		retry.Attempts(lookupAttempts),
		retry.Delay(10*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("bookservice: resolve version: %w", err)
	}
	return out, nil
}

// nextVersionName computes the next free version name after base.
// Purely numeric names increment as integers; names ending in digits
// increment the numeric suffix keeping the prefix; anything else gets a
// literal 2, 3, ... appended. Values present in used are skipped.
func nextVersionName(base string, used map[string]struct{}) string {
	if numericNameRe.MatchString(base) {
		n, _ := strconv.Atoi(base)
		for n++; ; n++ {
			if _, taken := used[strconv.Itoa(n)]; !taken {
				return strconv.Itoa(n)
			}
		}
	}
	if m := numberSuffixRe.FindStringSubmatch(base); m != nil {
		prefix := m[1]
		n, _ := strconv.Atoi(m[2])
		for n++; ; n++ {
			cand := prefix + strconv.Itoa(n)
			if _, taken := used[cand]; !taken {
				return cand
			}
		}
	}
	for n := 2; ; n++ {
		cand := base + strconv.Itoa(n)
		if _, taken := used[cand]; !taken {
			return cand
		}
	}
}

// resolveChapterSlug returns candidate if free in the scope, otherwise
// the first free -2 ... -N variant, otherwise a time-derived suffix that
// guarantees termination. used reflects both persisted slugs and slugs
// assigned earlier in the same batch.
func resolveChapterSlug(candidate string, used map[string]struct{}) (string, error) {
	if _, taken := used[candidate]; !taken {
		return candidate, nil
	}
	for k := 2; k <= slugAttempts; k++ {
		cand := fmt.Sprintf("%s-%d", candidate, k)
		if _, taken := used[cand]; !taken {
			return cand, nil
		}
	}
	cand := fmt.Sprintf("%s-%s", candidate, strconv.FormatInt(time.Now().UnixMilli(), 36))
	if _, taken := used[cand]; taken {
		return "", fmt.Errorf("bookservice: slug %q: %w", candidate, apperr.ErrResolutionExhausted)
	}
	return cand, nil
}
