package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lms/certificate"
	"lms/errs"
	"lms/logger"
	"lms/models/course"
)

const maxNumberAttempts = 5

const (
	appliedCourseCompletion = "course_completion"
	appliedCertificate      = "certificate"
)

// DocumentIssuer renders and stores a certificate document, returning its key.
type DocumentIssuer interface {
	Issue(ctx context.Context, data certificate.Data) (string, error)
}

// Eligibility answers whether a content item may be marked complete now.
type Eligibility struct {
	CanComplete      bool   `json:"can_complete"`
	Reason           string `json:"reason,omitempty"`
	AlreadyCompleted bool   `json:"already_completed"`
}

// CourseOutcome is the result of CompleteCourse.
type CourseOutcome struct {
	Completion        *course.CourseCompletion `json:"completion"`
	Certificate       *course.Certificate      `json:"certificate,omitempty"`
	Created           bool                     `json:"created"`
	CertificateIssued bool                     `json:"certificate_issued"`
}

// Orchestrator gates content completion and performs the one-time course
// completion transition together with certificate issuance.
type Orchestrator struct {
	store     Store
	ledger    *Ledger
	tracker   *Tracker
	issuer    DocumentIssuer
	newNumber func(courseID, userID uint) string
	log       *logger.Logger
	now       func() time.Time
}

func NewOrchestrator(store Store, ledger *Ledger, tracker *Tracker, issuer DocumentIssuer, newNumber func(courseID, userID uint) string, baseLog *logger.Logger, now func() time.Time) *Orchestrator {
	if newNumber == nil {
		newNumber = certificate.NewNumber
	}
	return &Orchestrator{
		store:     store,
		ledger:    ledger,
		tracker:   tracker,
		issuer:    issuer,
		newNumber: newNumber,
		log:       baseLog.With("component", "Orchestrator"),
		now:       now,
	}
}

// CanComplete applies the completion gate. Quiz items need at least one completed
// attempt, whatever its score; learners cannot complete content they cannot see.
func (o *Orchestrator) CanComplete(ctx context.Context, who Identity, content course.SectionContent, section course.CourseSection) (Eligibility, error) {
	done, err := o.ledger.IsCompleted(ctx, who.UserID, content.ID)
	if err != nil {
		return Eligibility{}, err
	}
	if done {
		return Eligibility{Reason: ReasonAlreadyCompleted, AlreadyCompleted: true}, nil
	}
	if !canSee(who, content, section, o.now()) {
		return Eligibility{Reason: ReasonNotAvailable}, nil
	}
	if content.IsQuiz() {
		payload, err := content.QuizPayload()
		if err != nil {
			return Eligibility{}, err
		}
		quiz, err := o.store.GetQuiz(ctx, payload.QuizID)
		if err != nil {
			return Eligibility{}, err
		}
		summary, err := o.tracker.Summarize(ctx, who.UserID, quiz, payload.EffectivePassingScore())
		if err != nil {
			return Eligibility{}, err
		}
		if summary.TotalAttempts == 0 {
			return Eligibility{Reason: ReasonQuizNotAttempted}, nil
		}
	}
	return Eligibility{CanComplete: true}, nil
}

// CompleteCourse is effectively-once. An existing completion is returned unchanged;
// otherwise the completion and, when enabled, the certificate record are written in a
// single transaction. progress is only consulted when no completion exists yet.
func (o *Orchestrator) CompleteCourse(ctx context.Context, who Identity, crs *course.Course, progress func(context.Context) (Progress, error)) (*CourseOutcome, error) {
	existing, err := o.store.FindCourseCompletion(ctx, who.UserID, crs.ID)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		out := &CourseOutcome{Completion: existing}
		if !crs.EnableCertificates {
			return out, nil
		}
		cert, issued, err := o.ensureCertificate(ctx, o.store, who, crs)
		if err != nil {
			return out, &PartialWriteError{Applied: []string{appliedCourseCompletion}, Err: err}
		}
		out.Certificate, out.CertificateIssued = cert, issued
		return o.attachDocument(ctx, crs, out)
	}

	p, err := progress(ctx)
	if err != nil {
		return nil, err
	}
	if !p.IsEligibleForCompletion {
		return nil, ErrNotEligible
	}

	out := &CourseOutcome{}
	err = o.store.Transaction(ctx, func(tx Store) error {
		row := &course.CourseCompletion{
			UserID:               who.UserID,
			CourseID:             crs.ID,
			CompletionPercentage: 100,
			CompletedAt:          o.now(),
		}
		saved, created, err := tx.InsertCourseCompletion(ctx, row)
		if err != nil {
			return err
		}
		out.Completion, out.Created = saved, created
		if !crs.EnableCertificates {
			return nil
		}
		cert, issued, err := o.ensureCertificate(ctx, tx, who, crs)
		if err != nil {
			return err
		}
		out.Certificate, out.CertificateIssued = cert, issued
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("complete course %d (nothing changed): %w", crs.ID, err)
	}
	o.log.Info("course completed", "user_id", who.UserID, "course_id", crs.ID, "certificate", out.Certificate != nil)
	return o.attachDocument(ctx, crs, out)
}

// EnsureDocument renders and stores the certificate document when it is missing.
func (o *Orchestrator) EnsureDocument(ctx context.Context, crs *course.Course, cert *course.Certificate) (*course.Certificate, error) {
	if cert.HasDocument() || o.issuer == nil {
		return cert, nil
	}
	key, err := o.issuer.Issue(ctx, certificate.Data{
		LearnerName:       cert.LearnerName,
		CourseTitle:       crs.Title,
		IssuedAt:          cert.IssuedAt,
		CertificateNumber: cert.CertificateNumber,
	})
	if err != nil {
		return cert, fmt.Errorf("render certificate %s: %w", cert.CertificateNumber, err)
	}
	if err := o.store.SetCertificateDocument(ctx, cert.ID, key); err != nil {
		return cert, fmt.Errorf("store certificate document for %s: %w", cert.CertificateNumber, err)
	}
	updated := *cert
	updated.DocumentKey = key
	return &updated, nil
}

func (o *Orchestrator) attachDocument(ctx context.Context, crs *course.Course, out *CourseOutcome) (*CourseOutcome, error) {
	if out.Certificate == nil {
		return out, nil
	}
	cert, err := o.EnsureDocument(ctx, crs, out.Certificate)
	out.Certificate = cert
	if err != nil {
		o.log.Warn("certificate document not rendered", "certificate", cert.CertificateNumber, "error", err)
		return out, &PartialWriteError{Applied: []string{appliedCourseCompletion, appliedCertificate}, Err: err}
	}
	return out, nil
}

func (o *Orchestrator) ensureCertificate(ctx context.Context, st Store, who Identity, crs *course.Course) (*course.Certificate, bool, error) {
	existing, err := st.FindCertificate(ctx, who.UserID, crs.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, false, err
	}

	for i := 0; i < maxNumberAttempts; i++ {
		cert := &course.Certificate{
			UserID:            who.UserID,
			CourseID:          crs.ID,
			CertificateNumber: o.newNumber(crs.ID, who.UserID),
			LearnerName:       learnerName(who),
			IssuedAt:          o.now(),
		}
		saved, created, err := st.InsertCertificate(ctx, cert)
		if errors.Is(err, errs.ErrDuplicate) {
			o.log.Warn("certificate number collision, regenerating", "number", cert.CertificateNumber)
			continue
		}
		if err != nil {
			return nil, false, err
		}
		return saved, created, nil
	}
	return nil, false, fmt.Errorf("generate certificate number: %w", errs.ErrDuplicate)
}

func learnerName(who Identity) string {
	if who.Name != "" {
		return who.Name
	}
	return fmt.Sprintf("Learner #%d", who.UserID)
}
