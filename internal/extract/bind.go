package extract

import (
	"time"

	"opinionetl/internal/idmap"
	"opinionetl/internal/model"
)

// Binder turns parsed CSV rows into records. Binding is a per-kind table of
// explicit cell lookups; nothing is inferred from struct shape at runtime.
//
// The opinion kinds need Resolver to synthesize their foreign keys: the
// source files carry no customer, product, or source reference, so each row
// gets random ids from the already-loaded reference tables. Without a
// resolver every synthesized id is 1.
type Binder struct {
	Resolver *idmap.Resolver

	// Now supplies the timestamp used for missing date cells and audit
	// columns. Defaults to time.Now; fixed in tests.
	Now func() time.Time
}

func (b *Binder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Binder) pick(kind model.Kind) int {
	if b.Resolver == nil {
		return 1
	}
	return b.Resolver.RandomPick(kind)
}

// Bind builds one record of kind from r. Cell-level noise never fails a
// bind; bad cells land as zero values or nil and the transform stage deals
// with them.
func (b *Binder) Bind(kind model.Kind, r row) model.Record {
	switch kind {
	case model.KindSource:
		return b.bindSource(r)
	case model.KindProduct:
		return b.bindProduct(r)
	case model.KindCustomer:
		return b.bindCustomer(r)
	case model.KindSurvey:
		return b.bindSurvey(r)
	case model.KindSocialComment:
		return b.bindSocialComment(r)
	case model.KindWebReview:
		return b.bindWebReview(r)
	default:
		return nil
	}
}

// bindSource maps fuentes.csv. The file identifies sources by raw numeric id;
// the name is synthesized from it so reruns produce stable natural keys.
func (b *Binder) bindSource(r row) model.Record {
	now := b.now()
	return &model.Source{
		Name:        "Fuente_" + r.str("idfuente"),
		SourceType:  r.str("tipofuente"),
		URL:         r.opt("url"),
		Description: r.opt("descripcion"),
		Active:      r.boolVal("activa", true),
		CreatedAt:   r.timeVal("fechacarga", now),
	}
}

func (b *Binder) bindProduct(r row) model.Record {
	now := b.now()
	return &model.Product{
		Code:        "PROD_" + r.str("idproducto"),
		Name:        r.str("nombre"),
		Category:    r.opt("categoria"),
		Subcategory: r.opt("subcategoria"),
		Price:       r.floatOpt("precio"),
		Description: r.opt("descripcion"),
		Brand:       r.opt("marca"),
		Status:      r.strDefault("estado", "Activo"),
		CreatedAt:   r.timeVal("fechacreacion", now),
		UpdatedAt:   r.timeVal("fechaactualizacion", now),
	}
}

// bindCustomer maps clientes.csv. The file carries no last name at all, so
// every customer gets the generated placeholder.
func (b *Binder) bindCustomer(r row) model.Record {
	now := b.now()
	return &model.Customer{
		Code:         "CLI_" + r.str("idcliente"),
		FirstName:    r.str("nombre"),
		LastName:     "Apellido_Generado",
		Email:        r.opt("email"),
		Phone:        r.opt("telefono"),
		BirthDate:    r.timeOpt("fechanacimiento"),
		Gender:       r.opt("genero"),
		City:         r.opt("ciudad"),
		Country:      r.opt("pais"),
		Segment:      r.strDefault("segmentocliente", "Regular"),
		Status:       r.strDefault("estado", "Activo"),
		RegisteredAt: r.timeVal("fecharegistro", now),
		UpdatedAt:    r.timeVal("fechaactualizacion", now),
	}
}

func (b *Binder) bindSurvey(r row) model.Record {
	now := b.now()
	sentiment := r.strDefault("sentimientoanalizado", "Neutral")
	return &model.Survey{
		CustomerID:          b.pick(model.KindCustomer),
		ProductID:           b.pick(model.KindProduct),
		SourceID:            b.pick(model.KindSource),
		Title:               r.strDefault("tituloencuesta", "Encuesta Importada"),
		MainQuestion:        r.opt("preguntaprincipal"),
		OverallRating:       r.intOpt("calificaciongeneral"),
		QualityRating:       r.intOpt("calificacioncalidad"),
		ServiceRating:       r.intOpt("calificacionservicio"),
		PriceRating:         r.intOpt("calificacionprecio"),
		Comment:             r.opt("comentario"),
		Sentiment:           &sentiment,
		SentimentConfidence: r.floatOpt("confianzasentimiento"),
		SurveyDate:          r.timeVal("fechaencuesta", now),
		CreatedAt:           now,
	}
}

func (b *Binder) bindSocialComment(r row) model.Record {
	now := b.now()
	sentiment := r.strDefault("sentimientoanalizado", "Neutral")
	return &model.SocialComment{
		ProductID:           b.pick(model.KindProduct),
		SourceID:            b.pick(model.KindSource),
		Platform:            r.strDefault("plataformasocial", "Facebook"),
		Username:            r.opt("usuariosocial"),
		Text:                r.strDefault("textocomentario", "Comentario importado"),
		Likes:               r.intVal("numlikes"),
		Shares:              r.intVal("numcompartidos"),
		Replies:             r.intVal("numrespuestas"),
		Hashtags:            r.opt("hashtagsprincipales"),
		Sentiment:           &sentiment,
		SentimentConfidence: r.floatOpt("confianzasentimiento"),
		PublishedAt:         r.timeVal("fechapublicacion", now),
		ExtractedAt:         now,
	}
}

func (b *Binder) bindWebReview(r row) model.Record {
	now := b.now()
	sentiment := r.strDefault("sentimientoanalizado", "Neutral")
	return &model.WebReview{
		ProductID:           b.pick(model.KindProduct),
		SourceID:            b.pick(model.KindSource),
		Site:                r.strDefault("sitioweb", "Amazon"),
		Title:               r.opt("tituloresena"),
		Text:                r.strDefault("textoresena", "Reseña importada"),
		NumericRating:       r.floatOpt("calificacionnumerica"),
		StarRating:          r.intOpt("calificacionestrellas"),
		Reviewer:            r.opt("usuarioresenador"),
		VerifiedPurchase:    r.boolVal("compraverificada", false),
		HelpfulVotes:        r.intVal("votosutiles"),
		TotalVotes:          r.intVal("votostotal"),
		Sentiment:           &sentiment,
		SentimentConfidence: r.floatOpt("confianzasentimiento"),
		ReviewDate:          r.timeVal("fecharesena", now),
		ExtractedAt:         now,
	}
}
